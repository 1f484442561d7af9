package e2etest

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/myrjola/avalanchemystery/internal/errors"
)

// insecureJar keeps cookies marked Secure even over plain HTTP, which the test servers speak.
type insecureJar struct {
	jar *cookiejar.Jar
}

// NewCookieJar returns a [http.CookieJar] that ignores the Secure attribute. Only use it against test servers.
func NewCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return &insecureJar{jar: jar}, nil
}

func (j *insecureJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.jar.SetCookies(u, cookies)
}

func (j *insecureJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}
