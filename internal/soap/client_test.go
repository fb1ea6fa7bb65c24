package soap

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/soc-api/internal/soc"
)

const sectorResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <ns2:incluirSetorResponse xmlns:ns2="http://services.soc.age.com/">
      <SetorRetorno>
        <codigo>7781</codigo>
        <informacaoGeral>
          <numeroErros>0</numeroErros>
          <mensagem>Setor incluido com sucesso</mensagem>
        </informacaoGeral>
      </SetorRetorno>
    </ns2:incluirSetorResponse>
  </soap:Body>
</soap:Envelope>`

const faultResponse = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/">
  <soap:Body>
    <soap:Fault>
      <faultcode>soap:Server</faultcode>
      <faultstring>Usuario ou senha invalidos</faultstring>
    </soap:Fault>
  </soap:Body>
</soap:Envelope>`

var (
	nonceRe   = regexp.MustCompile(`<wsse:Nonce[^>]*>([^<]+)</wsse:Nonce>`)
	createdRe = regexp.MustCompile(`<wsu:Created>([^<]+)</wsu:Created>`)
	digestRe  = regexp.MustCompile(`<wsse:Password[^>]*>([^<]+)</wsse:Password>`)
)

func newTestClient(t *testing.T, url string, mutate func(*Options)) *Client {
	t.Helper()
	log, _ := test.NewNullLogger()
	opts := Options{
		Name:       "SetorWs",
		Endpoint:   url,
		Namespace:  "http://services.soc.age.com/",
		Username:   "U1",
		Password:   "secret",
		Timeout:    2 * time.Second,
		Operations: soc.Sector().Operations.All(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	return NewClient(opts, log)
}

func sectorBody() *soc.Object {
	return soc.NewObject().Set("setor", soc.NewObject().
		Set("codigoEmpresa", "2116841").
		Set("codigo", "0").
		Set("nome", "Administração & Cia").
		Set("ativo", true))
}

func TestCallSendsSignedEnvelope(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "text/xml")
		w.Header().Set("Content-Type", "text/xml")
		_, _ = io.WriteString(w, sectorResponse)
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL, nil).Call(context.Background(), "incluirSetor", sectorBody())
	require.NoError(t, err)

	ret, ok := res["SetorRetorno"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "7781", ret["codigo"])

	assert.Contains(t, body, `<ser:incluirSetor>`)
	assert.Contains(t, body, `<setor><codigoEmpresa>2116841</codigoEmpresa><codigo>0</codigo><nome>Administração &amp; Cia</nome><ativo>true</ativo></setor>`)
	assert.Contains(t, body, `<wsse:Username>U1</wsse:Username>`)
	assert.Contains(t, body, passwordDigestType)

	nonce := nonceRe.FindStringSubmatch(body)
	digest := digestRe.FindStringSubmatch(body)
	created := createdRe.FindAllStringSubmatch(body, -1)
	require.Len(t, nonce, 2)
	require.Len(t, digest, 2)
	require.NotEmpty(t, created)

	raw, err := base64.StdEncoding.DecodeString(nonce[1])
	require.NoError(t, err)
	assert.Equal(t, passwordDigest(raw, created[len(created)-1][1], "secret"), digest[1])
	assert.NotContains(t, body, "secret")
}

func TestCallRepeatsListElements(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = io.WriteString(w, sectorResponse)
	}))
	defer srv.Close()

	items := []*soc.Object{
		soc.NewObject().Set("codigoUnidade", "1"),
		soc.NewObject().Set("codigoUnidade", "2"),
	}
	lote := soc.NewObject().Set("lote", soc.NewObject().Set("hierarquias", soc.NewObject().Set("hierarquia", items)))

	client := newTestClient(t, srv.URL, func(o *Options) { o.Operations = nil })
	_, err := client.Call(context.Background(), "incluirLote", lote)
	require.NoError(t, err)
	assert.Contains(t, body, `<hierarquias><hierarquia><codigoUnidade>1</codigoUnidade></hierarquia><hierarquia><codigoUnidade>2</codigoUnidade></hierarquia></hierarquias>`)
}

func TestCallFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, faultResponse)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, nil).Call(context.Background(), "incluirSetor", sectorBody())

	var fault *Fault
	require.ErrorAs(t, err, &fault)
	assert.Equal(t, "soap:Server", fault.Code)
	assert.Equal(t, "Usuario ou senha invalidos", fault.FaultMessage())

	var remote soc.RemoteFault
	assert.ErrorAs(t, err, &remote)
}

func TestCallHTMLGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `<html><head><title>502 Bad Gateway</title></head><body><h1>Bad Gateway</h1></body></html>`)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, nil).Call(context.Background(), "incluirSetor", sectorBody())

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	assert.Equal(t, "502 Bad Gateway Bad Gateway", terr.Message)
}

func TestCallTimeoutIgnoresCallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = io.WriteString(w, sectorResponse)
	}))
	defer srv.Close()

	t.Run("timeout", func(t *testing.T) {
		client := newTestClient(t, srv.URL, func(o *Options) { o.Timeout = 20 * time.Millisecond })
		_, err := client.Call(context.Background(), "incluirSetor", sectorBody())

		var terr *TransportError
		require.ErrorAs(t, err, &terr)
		assert.True(t, terr.Timeout)
	})

	t.Run("cancelled caller", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestClient(t, srv.URL, nil).Call(ctx, "incluirSetor", sectorBody())
		assert.NoError(t, err)
	})
}

func TestCallConfigurationErrors(t *testing.T) {
	hit := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hit = true }))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, func(o *Options) { o.Password = "" }).Call(context.Background(), "incluirSetor", sectorBody())
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = newTestClient(t, srv.URL, nil).Call(context.Background(), "incluirCargo", sectorBody())
	assert.ErrorIs(t, err, ErrUnknownOperation)

	_, err = newTestClient(t, "", nil).Call(context.Background(), "incluirSetor", sectorBody())
	assert.ErrorIs(t, err, ErrNotConfigured)

	assert.False(t, hit)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" || r.URL.RawQuery != "wsdl" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, "<definitions/>")
	}))
	defer srv.Close()

	assert.NoError(t, newTestClient(t, srv.URL, nil).Ping(context.Background()))
	assert.Error(t, newTestClient(t, srv.URL+"/missing", nil).Ping(context.Background()))
}
