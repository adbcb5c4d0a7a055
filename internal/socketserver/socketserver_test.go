package socketserver

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReadFrameWithinLimit(t *testing.T) {
	payload := "ping\n"
	reader := bufio.NewReaderSize(strings.NewReader(payload), 1024)

	line, err := readFrame(reader, 1024)
	require.NoError(t, err)
	require.Equal(t, payload, line)
}

func TestReadFrameRejectsOversized(t *testing.T) {
	oversized := strings.Repeat("a", 100) + "\n"
	reader := bufio.NewReaderSize(strings.NewReader(oversized), 16)

	_, err := readFrame(reader, 16)
	require.Error(t, err)
}

func TestReadFrameAcceptsEOFWithoutDelimiter(t *testing.T) {
	reader := bufio.NewReaderSize(strings.NewReader("ping"), 1024)

	line, err := readFrame(reader, 1024)
	require.NoError(t, err)
	require.Equal(t, "ping", line)
}

func TestReadFrameReturnsEOFOnEmptyInput(t *testing.T) {
	reader := bufio.NewReaderSize(strings.NewReader(""), 1024)

	_, err := readFrame(reader, 1024)
	require.ErrorIs(t, err, io.EOF)
}

type echoHandler struct{}

func (echoHandler) HandleLine(ctx context.Context, line string) string {
	if line == "ping" {
		return "PONG"
	}
	return "ERROR: unknown command"
}

func TestServerRoundTrip(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "cmux.sock")
	srv := New(sockPath, echoHandler{}, 0, 0)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	resp, err := Send(sockPath, "ping", time.Second)
	require.NoError(t, err)
	require.Equal(t, "PONG", resp)

	resp, err = Send(sockPath, "bogus", time.Second)
	require.NoError(t, err)
	require.Equal(t, "ERROR: unknown command", resp)
}

func TestServerStopUnlinksSocket(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "cmux.sock")
	srv := New(sockPath, echoHandler{}, 0, 0)
	require.NoError(t, srv.Start())
	require.NoError(t, srv.Stop())

	_, err := Send(sockPath, "ping", time.Second)
	require.Error(t, err)
	require.True(t, IsConnectionError(err))
}

func TestServerRejectsSecondStart(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "cmux.sock")
	srv := New(sockPath, echoHandler{}, 0, 0)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	require.Error(t, srv.Start())
}
