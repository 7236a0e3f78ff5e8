package alexa

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "alexa-skill-backend/internal/common/errors"
)

// inboundSchema is deliberately loose: the normalizer owns the mapping of
// unrecognized shapes, so the schema only rejects bodies that are not an
// object or whose members have impossible types.
const inboundSchema = `{
  "type": "object",
  "properties": {
    "version": {"type": "string"},
    "session": {"type": "object"},
    "request": {
      "type": "object",
      "properties": {
        "type": {"type": "string"}
      }
    }
  }
}`

var inboundSchemaLoader = gojsonschema.NewStringLoader(inboundSchema)

// ParseRequest validates and decodes an inbound body. Any failure is a
// MALFORMED_INBOUND_BODY error.
func ParseRequest(body []byte) (*Request, error) {
	result, err := gojsonschema.Validate(inboundSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, apperrors.NewMalformedInboundBodyError(err.Error())
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, apperrors.NewMalformedInboundBodyError(strings.Join(details, "; "))
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, apperrors.NewMalformedInboundBodyError(fmt.Sprintf("decode: %v", err))
	}

	return &req, nil
}
