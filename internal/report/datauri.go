package report

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// DecodeDataURI extracts the raw payload from an RFC 2397 data URI
// ("data:image/png;base64,...."). Non-base64 payloads are
// percent-decoded.
func DecodeDataURI(src string) ([]byte, error) {
	rest, found := strings.CutPrefix(src, "data:")
	if !found {
		return nil, errors.New("not a data uri")
	}
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, errors.New("malformed data uri: missing payload")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, errors.Wrap(err, "decode data uri payload")
		}
		return data, nil
	}
	decoded, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, errors.Wrap(err, "unescape data uri payload")
	}
	return []byte(decoded), nil
}
