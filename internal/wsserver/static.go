package wsserver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
)

// contentTypeFor infers a Content-Type from a file's suffix per spec.md
// §4.E; anything unrecognized falls back to application/octet-stream.
func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html":
		return "text/html"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// serveStatic answers a non-upgrade GET by streaming a file from root, or
// an error status, per spec.md §4.E. It never returns an error itself —
// any I/O failure writing the response is the caller's problem to notice
// (the connection is closed either way).
func serveStatic(w io.Writer, reqPath, root string, maxBytes int64) {
	reqPath = strings.SplitN(reqPath, "?", 2)[0]
	if reqPath == "/" {
		reqPath = "/index.html"
	}
	if strings.Contains(reqPath, "..") || strings.ContainsRune(reqPath, 0) {
		writeStatus(w, http.StatusBadRequest, nil)
		return
	}

	full := filepath.Join(root, filepath.FromSlash(path.Clean(reqPath)))
	info, err := os.Stat(full)
	if os.IsNotExist(err) {
		writeStatus(w, http.StatusNotFound, nil)
		return
	}
	if err != nil || info.IsDir() {
		writeStatus(w, http.StatusInternalServerError, nil)
		return
	}
	if info.Size() > maxBytes {
		writeStatus(w, http.StatusInternalServerError, nil)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		writeStatus(w, http.StatusInternalServerError, nil)
		return
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil || int64(len(body)) > maxBytes {
		writeStatus(w, http.StatusInternalServerError, nil)
		return
	}

	header := fmt.Sprintf(
		"HTTP/1.1 200 OK\r\nContent-Type: %s\r\nContent-Length: %d\r\nConnection: close\r\n\r\n",
		contentTypeFor(full), len(body),
	)
	_ = writeAll(w, []byte(header))
	_ = writeAll(w, body)
}

// writeStatus writes a minimal status-line-only response with a
// Content-Length matching body (defaulting to 0), used for the static
// responder's error paths.
func writeStatus(w io.Writer, status int, body []byte) {
	line := fmt.Sprintf(
		"HTTP/1.1 %d %s\r\nContent-Length: %s\r\nConnection: close\r\n\r\n",
		status, http.StatusText(status), strconv.Itoa(len(body)),
	)
	_ = writeAll(w, []byte(line))
	if len(body) > 0 {
		_ = writeAll(w, body)
	}
}
