package main

import (
	"net"
	"net/http"
	"os"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestServe_WaitsForWorkerStop(t *testing.T) {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	quit := make(chan os.Signal, 1)
	var workerStopped atomic.Bool
	stopWorker := func() {
		time.Sleep(100 * time.Millisecond)
		workerStopped.Store(true)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- serve(app, ln, quit, stopWorker) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	quit <- syscall.SIGTERM

	select {
	case err := <-errCh:
		require.NoError(t, err)
		require.True(t, workerStopped.Load(), "serve returned before the worker stopped")
	case <-time.After(3 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c *fiber.Ctx) error { return os.ErrPermission })

	resp, err := app.Test(httptestRequest("/teapot"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	resp, err = app.Test(httptestRequest("/boom"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func httptestRequest(path string) *http.Request {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	return req
}
