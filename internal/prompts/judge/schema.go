package judge

import "encoding/json"

// Schema is the JSON Schema the judge's verdict must satisfy. Parsed output
// that fails validation is treated as unparseable and handled by the lenient
// extraction path.
var Schema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "match": {"type": "boolean"},
    "score": {"type": "number", "minimum": 0, "maximum": 1},
    "reason": {"type": "string"}
  },
  "required": ["match", "score"],
  "additionalProperties": true
}`)
