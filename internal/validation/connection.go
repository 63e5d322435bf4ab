package validation

import (
	"math"
	"sort"
)

// knownConnectionParams is the closed schema for database connection
// configuration. Anything outside it is reported, not ignored.
var knownConnectionParams = map[string]bool{
	"host":          true,
	"port":          true,
	"database":      true,
	"username":      true,
	"password":      true,
	"timeout_ms":    true,
	"max_pool_size": true,
	"min_pool_size": true,
	"ssl_enabled":   true,
	"ssl_ca_file":   true,
}

// ValidateConnectionConfig checks database connection parameters
// against the closed schema. The schema is a contract, not a style
// rule, so every check runs at every level.
func ValidateConnectionConfig(params map[string]any, level Level) Result {
	result := NewResult()

	if host, ok := params["host"]; !ok {
		result.Add(CodeMissingField, "Host parameter is required", "host")
	} else if _, ok := host.(string); !ok {
		result.Add(CodeInvalidField, "Host must be a string", "host")
	}

	if port, ok := params["port"]; !ok {
		result.Add(CodeMissingField, "Port parameter is required", "port")
	} else if n, ok := asInt(port); !ok || n < 1 || n > 65535 {
		result.Add(CodeInvalidField, "Port must be an integer between 1 and 65535", "port")
	}

	if database, ok := params["database"]; !ok {
		result.Add(CodeMissingField, "Database name is required", "database")
	} else if _, ok := database.(string); !ok {
		result.Add(CodeInvalidField, "Database name must be a string", "database")
	}

	if timeout, ok := params["timeout_ms"]; ok {
		if n, ok := asInt(timeout); !ok || n < 0 {
			result.Add(CodeInvalidField, "Timeout must be a positive integer", "timeout_ms")
		} else if n < 1000 {
			result.Warn("Timeout value is less than 1 second")
		}
	}

	if poolSize, ok := params["max_pool_size"]; ok {
		if n, ok := asInt(poolSize); !ok || n < 1 {
			result.Add(CodeInvalidField, "Max pool size must be a positive integer", "max_pool_size")
		}
	}

	if enabled, ok := params["ssl_enabled"].(bool); ok && enabled {
		if caFile, ok := params["ssl_ca_file"]; !ok {
			result.Add(CodeMissingField, "SSL CA file is required when SSL is enabled", "ssl_ca_file")
		} else if _, ok := caFile.(string); !ok {
			result.Add(CodeInvalidField, "SSL CA file path must be a string", "ssl_ca_file")
		}
	}

	var unknown []string
	for key := range params {
		if !knownConnectionParams[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		result.Addf(CodeUnknownField, key, "Unknown parameter: %s", key)
	}

	return result
}

// asInt accepts the integer encodings a JSON decode can hand us.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
