package response

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/conduit-lang/jsonapi-view/internal/jsonapi"
)

const (
	// JSONAPIMediaType is the official JSON:API media type
	JSONAPIMediaType = "application/vnd.api+json"
)

// IsJSONAPI checks if the request accepts JSON:API format
func IsJSONAPI(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}

	for _, part := range strings.Split(accept, ",") {
		// Parse media type to handle parameters like q=0.9
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == JSONAPIMediaType {
			return true
		}
	}

	return false
}

// MarshalDocument encodes an assembled document
func MarshalDocument(doc jsonapi.Document) ([]byte, error) {
	return json.Marshal(doc)
}

// RenderDocument writes doc as a JSON:API response body
func RenderDocument(w http.ResponseWriter, status int, doc jsonapi.Document) error {
	// Marshal FIRST, before touching the response
	// This avoids partial writes if marshaling fails
	data, err := MarshalDocument(doc)
	if err != nil {
		return err
	}

	return RenderRaw(w, status, data)
}

// RenderRaw writes an already encoded JSON:API body
func RenderRaw(w http.ResponseWriter, status int, data []byte) error {
	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(status)
	_, err := w.Write(data)
	return err
}
