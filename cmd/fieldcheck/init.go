package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docuverify/fieldcheck/internal/config"
	"github.com/docuverify/fieldcheck/internal/home"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the fieldcheck home directory and default config",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := dir.EnsureExists(); err != nil {
			return err
		}

		if dir.ConfigExists() {
			fmt.Printf("config already exists at %s\n", dir.ConfigPath())
			return nil
		}
		if err := config.WriteDefault(dir.ConfigPath()); err != nil {
			return err
		}

		fmt.Printf("initialized %s\n", dir.Path())
		fmt.Printf("wrote default config to %s\n", dir.ConfigPath())
		return nil
	},
}
