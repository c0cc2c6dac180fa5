package transport

import (
	"encoding/json"
	"net/http"

	"github.com/biopragmatics/orcidsync/pkg/errors"
)

// DecodeResponse decodes a JSON response into the target structure.
func DecodeResponse(resp *http.Response, target any) error {
	body, err := ReadBody(resp)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
