package metadata

const workflowSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "name", "steps"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "version": {"type": "string"},
    "author": {"type": "string"},
    "metadata": {
      "type": "object",
      "properties": {
        "category": {"type": "string"},
        "tags": {"type": "array", "items": {"type": "string"}},
        "requiredRuntime": {"type": "string"},
        "requiredPlugins": {"type": "array", "items": {"type": "string"}}
      }
    },
    "parameters": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "type": {"type": "string"},
          "description": {"type": "string"},
          "required": {"type": "boolean"},
          "validation": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type"],
              "properties": {
                "type": {"type": "string"},
                "params": {"type": "object"}
              }
            }
          }
        }
      }
    },
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "type": {"type": "string", "enum": ["rpc_call", "model_use", "data_transform"]},
          "connector": {"type": "string"},
          "operation": {"type": "string"},
          "parameters": {"type": "object"},
          "condition": {"type": "string"},
          "retryPolicy": {
            "type": "object",
            "properties": {
              "maxAttempts": {"type": "integer", "minimum": 0},
              "delaySeconds": {"type": "integer", "minimum": 0},
              "backoff": {"type": "string"}
            }
          },
          "timeoutSeconds": {"type": "integer", "minimum": 0}
        }
      }
    },
    "outputs": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["source"],
        "properties": {
          "source": {"type": "string"},
          "type": {"type": "string"},
          "description": {"type": "string"}
        }
      }
    }
  }
}`
