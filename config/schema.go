package config

import "github.com/santhosh-tekuri/jsonschema/v5"

// configSchema rejects malformed config files up front, with a pointer to
// the offending field, instead of letting a typo silently fall back to a
// zero value.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "port": {
      "type": "integer",
      "minimum": 1,
      "maximum": 65535
    },
    "midiOutput": {
      "type": "string"
    },
    "backend": {
      "type": "string",
      "enum": ["midi", "keys"]
    },
    "app": {
      "type": "string",
      "minLength": 1
    },
    "sliderChannel": {
      "type": "integer",
      "minimum": 0,
      "maximum": 15
    },
    "clampValues": {
      "type": "boolean"
    },
    "transportKeys": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": false,
        "required": ["key"],
        "properties": {
          "key": {
            "type": "string",
            "minLength": 1
          },
          "command": {
            "type": "boolean"
          }
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("config.schema.json", configSchema)
