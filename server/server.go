// Package server exposes the conversions over HTTP.
package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/musicbin/convert"
	"github.com/jsphweid/musicbin/logging"
	"github.com/jsphweid/musicbin/model"
	"github.com/rs/cors"
)

// MaxBodySize caps request bodies.
const MaxBodySize = 32 << 20

const (
	contentTypeBin      = "application/octet-stream"
	contentTypeMusicXML = "application/vnd.recordare.musicxml+xml"
	contentTypeMIDI     = "audio/midi"
	contentTypeJSON     = "application/json"
)

func writeError(w http.ResponseWriter, status int, err error) {
	logging.Debugf("Request failed: %v", err)
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

// conversion adapts a reader to writer conversion into a handler.
func conversion(contentType string, fn func(r io.Reader, w io.Writer) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var out bytes.Buffer
		if err := fn(http.MaxBytesReader(w, r.Body, MaxBodySize), &out); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(out.Bytes())
	}
}

func xmlToBin(r io.Reader, w io.Writer) error {
	_, err := convert.XMLToBin(r, w)
	return err
}

func HandleInspect(w http.ResponseWriter, r *http.Request) {
	dump := r.URL.Query().Get("dump") == "true"
	res, err := convert.Inspect(http.MaxBytesReader(w, r.Body, MaxBodySize), dump)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeJSON)
	json.NewEncoder(w).Encode(res)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeJSON)
	io.WriteString(w, `{"status":"ok"}`)
}

func Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/xml2bin", conversion(contentTypeBin, xmlToBin)).Methods("POST")
	router.HandleFunc("/bin2xml", conversion(contentTypeMusicXML, convert.BinToXML)).Methods("POST")
	router.HandleFunc("/bin2mid", conversion(contentTypeMIDI, convert.BinToMIDI)).Methods("POST")
	router.HandleFunc("/xmlmulti", conversion(contentTypeMusicXML, convert.XMLMulti)).Methods("POST")
	router.HandleFunc("/inspect", HandleInspect).Methods("POST")
	router.HandleFunc("/health", handleHealth).Methods("GET")
	return cors.Default().Handler(router)
}

func ListenAndServe(addr string) error {
	logging.Infof("Listening on %v", addr)
	return http.ListenAndServe(addr, Handler())
}
