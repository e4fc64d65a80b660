package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsphweid/musicbin/model"
	"github.com/jsphweid/musicbin/musicbin"
	"github.com/stretchr/testify/assert"
)

const score = `<score-partwise><part-list><score-part id="P1"/></part-list><part id="P1"><measure number="1">
<attributes><divisions>1</divisions></attributes>
<note><pitch><step>C</step><octave>4</octave></pitch><duration>4</duration><voice>1</voice><type>whole</type></note>
</measure></part></score-partwise>`

func do(h http.Handler, method, target string, body io.Reader) *http.Response {
	req := httptest.NewRequest(method, target, body)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func TestConversions(t *testing.T) {
	assert := assert.New(t)
	h := Handler()

	resp := do(h, http.MethodPost, "/xml2bin", strings.NewReader(score))
	assert.Equal(http.StatusOK, resp.StatusCode)
	assert.Equal(contentTypeBin, resp.Header.Get("Content-Type"))
	bin, _ := io.ReadAll(resp.Body)
	assert.Equal(musicbin.HeaderSize+4*4, len(bin))

	t.Run("inspect", func(t *testing.T) {
		resp := do(h, http.MethodPost, "/inspect?dump=true", bytes.NewReader(bin))
		assert.Equal(http.StatusOK, resp.StatusCode)
		var res model.InspectResponse
		assert.Nil(json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(4, res.Elements)
		assert.Equal(uint32(16), res.Length)
		assert.Len(res.Dump, 4)
	})

	t.Run("bin2xml", func(t *testing.T) {
		resp := do(h, http.MethodPost, "/bin2xml", bytes.NewReader(bin))
		assert.Equal(http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(string(body), "<type>whole</type>")
	})

	t.Run("bin2mid", func(t *testing.T) {
		resp := do(h, http.MethodPost, "/bin2mid", bytes.NewReader(bin))
		assert.Equal(http.StatusOK, resp.StatusCode)
		assert.Equal(contentTypeMIDI, resp.Header.Get("Content-Type"))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal("MThd", string(body[:4]))
	})
}

func TestErrors(t *testing.T) {
	assert := assert.New(t)
	h := Handler()

	resp := do(h, http.MethodPost, "/bin2xml", strings.NewReader("nope"))
	assert.Equal(http.StatusBadRequest, resp.StatusCode)
	var e model.ErrorResponse
	assert.Nil(json.NewDecoder(resp.Body).Decode(&e))
	assert.NotEmpty(e.Error)

	resp = do(h, http.MethodGet, "/xml2bin", nil)
	assert.Equal(http.StatusMethodNotAllowed, resp.StatusCode)

	resp = do(h, http.MethodGet, "/health", nil)
	assert.Equal(http.StatusOK, resp.StatusCode)
}
