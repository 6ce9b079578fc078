package handler

import (
	"bufio"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/sse"
)

func TestSSEStreamEndsWhenHubCloses(t *testing.T) {
	c := qt.New(t)

	hub := sse.NewHub()
	r := gin.New()
	r.GET("/v1/admin/events", NewSSEHandler(hub).Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/admin/events")
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	c.Assert(err, qt.IsNil)
	c.Assert(line, qt.Equals, "event:connected\n")

	hub.Close()

	done := make(chan string, 1)
	go func() {
		rest, _ := io.ReadAll(reader)
		done <- string(rest)
	}()
	select {
	case rest := <-done:
		c.Assert(strings.Contains(rest, "event:ping"), qt.IsFalse)
	case <-time.After(5 * time.Second):
		c.Fatal("stream stayed open after hub close")
	}
}
