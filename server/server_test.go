package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Gaelhpalmer/diarized-stt/logger"
)

func TestStartServeStop(t *testing.T) {
	s := New(Config{Addr: "127.0.0.1:0"}, logger.NewDefault("test"))
	s.GinEngine().GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Port 0 picks a free port; Addr() reports it after bind.
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop(context.Background())

	resp, err := http.Get(fmt.Sprintf("http://%s/ping", s.Addr()))
	if err != nil {
		t.Fatalf("GET /ping: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}
}
