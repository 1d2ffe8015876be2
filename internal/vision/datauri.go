package vision

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// ImageSource is a decodable in-memory form of an uploaded file: a
// "data:<mime>;base64,<payload>" URL usable directly as an <img> src.
type ImageSource string

var errNotDataURL = errors.New("not a data URL")

// EncodeImageSource builds a base64 data URL. An empty or generic content type
// is replaced by a sniffed one.
func EncodeImageSource(contentType string, data []byte) ImageSource {
	ct := strings.TrimSpace(contentType)
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(ct) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(ct)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return ImageSource(b.String())
}

// MIME returns the media type embedded in the data URL, or "" if malformed.
func (s ImageSource) MIME() string {
	mt, _, _, err := s.split()
	if err != nil {
		return ""
	}
	return mt
}

// Bytes decodes the payload of the data URL.
func (s ImageSource) Bytes() ([]byte, error) {
	_, isB64, payload, err := s.split()
	if err != nil {
		return nil, err
	}
	if isB64 {
		return base64.StdEncoding.DecodeString(payload)
	}
	p, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(p), nil
}

func (s ImageSource) split() (mediaType string, isBase64 bool, payload string, err error) {
	str := string(s)
	if !strings.HasPrefix(str, "data:") {
		return "", false, "", errNotDataURL
	}
	str = str[len("data:"):]
	comma := strings.IndexByte(str, ',')
	if comma < 0 {
		return "", false, "", errNotDataURL
	}
	meta, payload := str[:comma], str[comma+1:]
	if strings.HasSuffix(meta, ";base64") {
		isBase64 = true
		meta = strings.TrimSuffix(meta, ";base64")
	}
	if meta == "" {
		meta = "text/plain"
	}
	return meta, isBase64, payload, nil
}
