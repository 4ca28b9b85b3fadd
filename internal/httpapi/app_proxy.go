package httpapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"model_gateway/internal/logging"
	"model_gateway/internal/providers"
	"model_gateway/internal/utils"
)

// NewAppProxy serves the host application mounted at mount. When injectHTML
// is set it is spliced into every HTML page before </head>, or before
// </body> when the page has no head.
func NewAppProxy(target *url.URL, mount, injectHTML string) http.Handler {
	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = trimMount(pr.In.URL.Path, mount)
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.SetXForwarded()

			// Pages are rewritten, so conditional and compressed responses
			// would bypass the injection
			for _, h := range []string{"If-None-Match", "If-Modified-Since", "Accept-Encoding"} {
				pr.Out.Header.Del(h)
			}
			for _, h := range providers.InboundAuthHeaders {
				pr.Out.Header.Del(h)
			}
		},
		FlushInterval: -1,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logging.Logger().Warn().Err(err).Str("path", r.URL.Path).Msg("app proxy request failed")
			utils.RespondWithError(w, http.StatusBadGateway, "Upstream request failed")
		},
	}

	if injectHTML != "" {
		proxy.ModifyResponse = func(resp *http.Response) error {
			return injectIntoHTML(resp, injectHTML)
		}
	}
	return proxy
}

func injectIntoHTML(resp *http.Response, snippet string) error {
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") || strings.Contains(contentType, "text/event-stream") {
		return nil
	}
	if resp.Header.Get("Content-Encoding") != "" {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	body = injectSnippet(body, snippet)
	resp.Body = io.NopCloser(bytes.NewReader(body))
	resp.ContentLength = int64(len(body))
	resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
	resp.Header.Del("ETag")
	resp.Header.Del("Last-Modified")
	return nil
}

// injectSnippet inserts snippet before the last </head>, falling back to the
// last </body>. Pages with neither are returned unchanged.
func injectSnippet(page []byte, snippet string) []byte {
	idx := lastIndexFold(page, "</head>")
	if idx < 0 {
		idx = lastIndexFold(page, "</body>")
	}
	if idx < 0 {
		return page
	}

	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:idx]...)
	out = append(out, snippet...)
	out = append(out, page[idx:]...)
	return out
}

// lastIndexFold is bytes.LastIndex with ASCII case folding.
func lastIndexFold(s []byte, sep string) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		if strings.EqualFold(string(s[i:i+len(sep)]), sep) {
			return i
		}
	}
	return -1
}
