// Command sourcemap-server exposes the decode/lookup/concat API as a
// JSON-RPC 2.0 service over stdio, for editor-style tooling that wants to
// resolve positions without shelling out to the sourcemap CLI per call.
package main

import (
	"context"
	"io"
	"os"

	"github.com/MadAppGang/sourcemap/internal/logging"
	"go.lsp.dev/jsonrpc2"
)

func main() {
	logLevel := os.Getenv("SOURCEMAP_SERVER_LOG")
	if logLevel == "" {
		logLevel = "info"
	}
	logger := logging.New(logLevel)
	defer logger.Sync()

	logger.Infof("starting sourcemap-server (log level: %s)", logLevel)

	rwc := &stdinoutCloser{stdin: os.Stdin, stdout: os.Stdout}
	stream := jsonrpc2.NewStream(rwc)
	conn := jsonrpc2.NewConn(stream)

	svc := newService(logger)
	conn.Go(context.Background(), svc.handle)

	<-conn.Done()
	if err := conn.Err(); err != nil {
		logger.Errorf("connection closed: %v", err)
		os.Exit(1)
	}
	logger.Infof("server stopped")
}

// stdinoutCloser wraps os.Stdin and os.Stdout as a single ReadWriteCloser.
// Close is a no-op: the process's own stdio streams must outlive any one
// RPC connection over them.
type stdinoutCloser struct {
	stdin  *os.File
	stdout *os.File
}

func (s *stdinoutCloser) Read(p []byte) (int, error)  { return s.stdin.Read(p) }
func (s *stdinoutCloser) Write(p []byte) (int, error) { return s.stdout.Write(p) }
func (s *stdinoutCloser) Close() error                { return nil }

var _ io.ReadWriteCloser = (*stdinoutCloser)(nil)
