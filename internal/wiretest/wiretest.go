// Package wiretest provides shared MessagePack packet fixtures for tests
// across the module, mirroring the teacher's internal/testutil helpers.
package wiretest

import "github.com/vmihailenco/msgpack/v5"

// Encode marshals a fixture map to its wire bytes. It panics on a marshal
// failure since fixtures are hand-built and must always be valid.
func Encode(fields map[string]any) []byte {
	b, err := msgpack.Marshal(fields)
	if err != nil {
		panic("wiretest: marshal fixture: " + err.Error())
	}
	return b
}

// CheckPortRequest returns the wire bytes for the scenario 1 request in
// spec.md §8: actionCheckport, req_id 0, port 15441.
func CheckPortRequest(reqID int, port int) []byte {
	return Encode(map[string]any{
		"cmd":    "actionCheckport",
		"req_id": reqID,
		"params": map[string]any{"port": port},
	})
}

// CheckPortResponse returns the wire bytes for the scenario 1 response.
func CheckPortResponse(to int, status string) []byte {
	return Encode(map[string]any{
		"cmd":         "response",
		"to":          to,
		"status":      status,
		"ip_external": "1.2.3.4",
	})
}

// HashfieldResponse returns the wire bytes for the scenario 2 response:
// a RespHashSet carrying raw as its hashfield_raw.
func HashfieldResponse(to int, raw []byte) []byte {
	return Encode(map[string]any{
		"cmd":           "response",
		"to":            to,
		"hashfield_raw": raw,
	})
}

// GetFileRequest returns the wire bytes for a GetFile request.
func GetFileRequest(reqID int, site, innerPath string, offset, totalSize *int) []byte {
	params := map[string]any{"site": site, "inner_path": innerPath}
	if offset != nil {
		params["location"] = *offset
	}
	if totalSize != nil {
		params["file_size"] = *totalSize
	}
	return Encode(map[string]any{
		"cmd":    "getFile",
		"req_id": reqID,
		"params": params,
	})
}

// RespFileResponse returns the wire bytes for a RespFile: location is the
// last byte offset, body is the chunk payload, size is the file's total
// size.
func RespFileResponse(to int, location, size int, body []byte) []byte {
	return Encode(map[string]any{
		"cmd":      "response",
		"to":       to,
		"location": location,
		"size":     size,
		"body":     body,
	})
}

// PredicateResponse returns the wire bytes for an ok/error acknowledgement.
func PredicateResponse(to int, ok bool) []byte {
	if ok {
		return Encode(map[string]any{"cmd": "response", "to": to, "ok": true})
	}
	return Encode(map[string]any{"cmd": "response", "to": to, "error": "failed"})
}

// PongResponse returns the wire bytes for a Pong.
func PongResponse(to int) []byte {
	return Encode(map[string]any{"cmd": "response", "to": to, "pong": true})
}
