// Package happ converts subscription URLs into Happ distribution
// codes via the public encoding endpoint.
package happ

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultAPIURL = "https://crypto.happ.su/api.php"

type Encoder struct {
	http   *resty.Client
	apiURL string
}

func NewEncoder(apiURL string) *Encoder {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Encoder{
		http:   resty.New().SetTimeout(30 * time.Second),
		apiURL: apiURL,
	}
}

// Encode returns the encoded form of subURL, or subURL unchanged if
// the encoder is unreachable or its response carries no link. The raw
// URL is still usable by clients, so encoding never blocks
// distribution.
func (e *Encoder) Encode(ctx context.Context, subURL string) string {
	resp, err := e.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"url": subURL}).
		Post(e.apiURL)
	if err != nil {
		return subURL
	}
	var out struct {
		EncryptedLink string `json:"encrypted_link"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return subURL
	}
	if out.EncryptedLink == "" {
		return subURL
	}
	return out.EncryptedLink
}
