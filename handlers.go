package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func newRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/.status", statusHandler).Methods(http.MethodGet)
	r.HandleFunc("/taxonomy", taxonomyHandler).Methods(http.MethodGet)
	return r
}

func statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(mtr.Export()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func taxonomyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(taxStore.Current()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
