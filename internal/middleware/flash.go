package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "flash"
	flashKey        = "flashes"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AddFlash queues a message. It survives a redirect and is also visible to a
// render later in the same request.
func AddFlash(c *gin.Context, category, message string) {
	flashes := append(pendingFlashes(c), Flash{Category: category, Message: message})
	c.Set(flashKey, flashes)
	writeFlashCookie(c, flashes)
}

// Flashes returns and clears every queued message.
func Flashes(c *gin.Context) []Flash {
	flashes := pendingFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.Set(flashKey, []Flash{})
	writeFlashCookie(c, nil)
	return flashes
}

func pendingFlashes(c *gin.Context) []Flash {
	if v, ok := c.Get(flashKey); ok {
		return v.([]Flash)
	}

	var flashes []Flash
	if raw, err := c.Cookie(flashCookieName); err == nil && raw != "" {
		if data, err := base64.RawURLEncoding.DecodeString(raw); err == nil {
			_ = json.Unmarshal(data, &flashes)
		}
	}
	c.Set(flashKey, flashes)
	return flashes
}

// writeFlashCookie replaces any flash cookie already queued on this response.
func writeFlashCookie(c *gin.Context, flashes []Flash) {
	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, flashCookieName+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}

	cookie := &http.Cookie{
		Name:     flashCookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(flashes) == 0 {
		cookie.MaxAge = -1
	} else {
		data, err := json.Marshal(flashes)
		if err != nil {
			return
		}
		cookie.Value = base64.RawURLEncoding.EncodeToString(data)
	}
	http.SetCookie(c.Writer, cookie)
}
