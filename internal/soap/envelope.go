package soap

import (
	"bytes"
	"crypto/sha1"
	"encoding/base64"
	"encoding/xml"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nexconsult/soc-api/internal/soc"
)

const (
	envelopeNS         = "http://schemas.xmlsoap.org/soap/envelope/"
	wsseNS             = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	wsuNS              = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	passwordDigestType = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-username-token-profile-1.0#PasswordDigest"
	base64EncodingType = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"

	timestampFormat = "2006-01-02T15:04:05.000Z"
	timestampTTL    = 10 * time.Minute
)

// credentials is the WS-Security UsernameToken of one request.
type credentials struct {
	username string
	password string
	created  time.Time
	nonce    []byte
}

func newCredentials(username, password string, now time.Time) credentials {
	id := uuid.New()
	return credentials{username: username, password: password, created: now.UTC(), nonce: id[:]}
}

// passwordDigest computes Base64(SHA1(nonce + created + password)).
func passwordDigest(nonce []byte, created, password string) string {
	h := sha1.New()
	h.Write(nonce)
	h.Write([]byte(created))
	h.Write([]byte(password))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// xmlWriter keeps the first encoding error so callers can chain writes.
type xmlWriter struct {
	enc *xml.Encoder
	err error
}

func name(local string) xml.Name { return xml.Name{Local: local} }

func attr(local, value string) xml.Attr { return xml.Attr{Name: name(local), Value: value} }

func (w *xmlWriter) start(local string, attrs ...xml.Attr) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.StartElement{Name: name(local), Attr: attrs})
	}
}

func (w *xmlWriter) end(local string) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.EndElement{Name: name(local)})
	}
}

func (w *xmlWriter) text(local, value string, attrs ...xml.Attr) {
	w.start(local, attrs...)
	if w.err == nil {
		w.err = w.enc.EncodeToken(xml.CharData(value))
	}
	w.end(local)
}

// value writes v as element local. Lists repeat the element.
func (w *xmlWriter) value(local string, v any) {
	switch t := v.(type) {
	case nil:
	case *soc.Object:
		w.start(local)
		for _, f := range t.Fields() {
			w.value(f.Name, f.Value)
		}
		w.end(local)
	case []*soc.Object:
		for _, item := range t {
			w.value(local, item)
		}
	case []any:
		for _, item := range t {
			w.value(local, item)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.start(local)
		for _, k := range keys {
			w.value(k, t[k])
		}
		w.end(local)
	default:
		w.text(local, soc.FormatValue(t))
	}
}

func (w *xmlWriter) security(c credentials) {
	created := c.created.Format(timestampFormat)

	w.start("wsse:Security",
		attr("soapenv:mustUnderstand", "1"),
		attr("xmlns:wsse", wsseNS),
		attr("xmlns:wsu", wsuNS))

	w.start("wsu:Timestamp", attr("wsu:Id", "TS-"+uuid.NewString()))
	w.text("wsu:Created", created)
	w.text("wsu:Expires", c.created.Add(timestampTTL).Format(timestampFormat))
	w.end("wsu:Timestamp")

	w.start("wsse:UsernameToken", attr("wsu:Id", "UsernameToken-"+uuid.NewString()))
	w.text("wsse:Username", c.username)
	w.text("wsse:Password", passwordDigest(c.nonce, created, c.password), attr("Type", passwordDigestType))
	w.text("wsse:Nonce", base64.StdEncoding.EncodeToString(c.nonce), attr("EncodingType", base64EncodingType))
	w.text("wsu:Created", created)
	w.end("wsse:UsernameToken")

	w.end("wsse:Security")
}

// buildEnvelope renders a complete SOAP 1.1 request. Body fields are
// unqualified; only the operation element lives in the service namespace.
func buildEnvelope(namespace, operation string, body *soc.Object, c credentials) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	w := &xmlWriter{enc: xml.NewEncoder(&buf)}
	w.start("soapenv:Envelope", attr("xmlns:soapenv", envelopeNS), attr("xmlns:ser", namespace))
	w.start("soapenv:Header")
	w.security(c)
	w.end("soapenv:Header")
	w.start("soapenv:Body")
	w.start("ser:" + operation)
	for _, f := range body.Fields() {
		w.value(f.Name, f.Value)
	}
	w.end("ser:" + operation)
	w.end("soapenv:Body")
	w.end("soapenv:Envelope")

	if w.err != nil {
		return nil, w.err
	}
	if err := w.enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
