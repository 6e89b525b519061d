package config

// Schema is the JSON Schema describing Config's on-disk/unmarshalled shape,
// used by the CLI's validate-config command to check a configuration file
// independently of Validate's semantic invariants.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "morphlex configuration",
  "type": "object",
  "additionalProperties": true,
  "properties": {
    "cache": {
      "type": "object",
      "properties": {
        "max_size_bytes": {"type": "integer", "minimum": 0}
      }
    },
    "source": {
      "type": "object",
      "properties": {
        "languages": {
          "type": "array",
          "items": {"type": "string"}
        }
      }
    },
    "report": {
      "type": "object",
      "properties": {
        "color": {"type": "boolean"},
        "chart_path": {"type": "string"}
      }
    },
    "observability": {
      "type": "object",
      "properties": {
        "otlp_endpoint": {"type": "string"},
        "otlp_insecure": {"type": "boolean"},
        "sample_ratio": {"type": "number", "minimum": 0, "maximum": 1},
        "trace_verbose": {"type": "boolean"},
        "log_json": {"type": "boolean"}
      }
    }
  }
}`
