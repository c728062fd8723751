package encryption

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
)

// GatewayConfigEncrypter encrypts every value of a gateway config
// independently, so keys stay readable.
type GatewayConfigEncrypter struct {
	encrypter Encrypter
}

func NewGatewayConfigEncrypter(e Encrypter) *GatewayConfigEncrypter {
	return &GatewayConfigEncrypter{encrypter: e}
}

func (g *GatewayConfigEncrypter) Encrypt(cfg *domain.GatewayConfig) error {
	values, err := encryptValues(g.encrypter, cfg.Config)
	if err != nil {
		return fmt.Errorf("gateway config %s: %w", cfg.Name, err)
	}
	cfg.Config = values
	return nil
}

func (g *GatewayConfigEncrypter) Decrypt(cfg *domain.GatewayConfig) error {
	values, err := decryptValues(g.encrypter, cfg.Config)
	if err != nil {
		return fmt.Errorf("gateway config %s: %w", cfg.Name, err)
	}
	cfg.Config = values
	return nil
}

// PaymentRequestEncrypter encrypts the payload and the response data of a
// payment request.
type PaymentRequestEncrypter struct {
	encrypter Encrypter
}

func NewPaymentRequestEncrypter(e Encrypter) *PaymentRequestEncrypter {
	return &PaymentRequestEncrypter{encrypter: e}
}

func (p *PaymentRequestEncrypter) Encrypt(req *domain.PaymentRequest) error {
	if req.Payload != nil {
		payload, err := encryptValue(p.encrypter, req.Payload)
		if err != nil {
			return fmt.Errorf("payment request %s payload: %w", req.ID, err)
		}
		req.Payload = payload
	}
	data, err := encryptValues(p.encrypter, req.ResponseData)
	if err != nil {
		return fmt.Errorf("payment request %s response data: %w", req.ID, err)
	}
	req.ResponseData = data
	return nil
}

func (p *PaymentRequestEncrypter) Decrypt(req *domain.PaymentRequest) error {
	payload, err := decryptValue(p.encrypter, req.Payload)
	if err != nil {
		return fmt.Errorf("payment request %s payload: %w", req.ID, err)
	}
	req.Payload = payload
	data, err := decryptValues(p.encrypter, req.ResponseData)
	if err != nil {
		return fmt.Errorf("payment request %s response data: %w", req.ID, err)
	}
	req.ResponseData = data
	return nil
}

func encryptValues(e Encrypter, values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		enc, err := encryptValue(e, v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = enc
	}
	return out, nil
}

func decryptValues(e Encrypter, values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, nil
	}
	out := make(map[string]any, len(values))
	for k, v := range values {
		dec, err := decryptValue(e, v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = dec
	}
	return out, nil
}

// encryptValue serialises v as JSON and encrypts it. Strings that are already
// encrypted are kept.
func encryptValue(e Encrypter, v any) (string, error) {
	if s, ok := v.(string); ok && IsEncrypted(s) {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	return e.Encrypt(string(b))
}

// decryptValue reverses encryptValue. Anything that is not an encrypted
// string is returned unchanged. Numbers decode as json.Number so integers
// and decimals keep their exact text.
func decryptValue(e Encrypter, v any) (any, error) {
	s, ok := v.(string)
	if !ok || !IsEncrypted(s) {
		return v, nil
	}
	plain, err := e.Decrypt(s)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(strings.NewReader(plain))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}
