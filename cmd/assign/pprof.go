package main

import (
	"net/http"
	"net/http/pprof"
)

// startPprofServer exposes the standard pprof endpoints on addr so a long
// assignment run can be profiled live.
func startPprofServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
	mux.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
	server := &http.Server{Addr: addr, Handler: mux}
	go server.ListenAndServe()
}
