package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Сетевые параметры клиента.
const (
	requestTimeout = 8 * time.Second
	tcpKeepAlive   = 4 * time.Second
)

// Профиль заголовков десктопного браузера. Запросы движка должны быть
// неотличимы от запросов настоящего пользователя сайта.
const (
	headerUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0"
	headerHost           = "www.wildberries.ru"
	headerAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"
	headerAcceptLanguage = "ru-RU,ru;q=0.5"
	headerAcceptEncoding = "gzip, deflate, br"
	headerOrigin         = "https://www.wildberries.ru"
	headerRequestedWith  = "XMLHttpRequest"
	headerSpaVersion     = "9.3.1"
	headerSecFetchDest   = "empty"
	headerSecFetchMode   = "cors"
	headerSecFetchSite   = "same-origin"
)

// sessionCookie — имя cookie с токеном авторизации аккаунта.
const sessionCookie = "WILDAUTHNEW_V3"

// siteDomain — домен, на который высаживается сессионный cookie.
const siteDomain = "wildberries.ru"

// Request — один HTTP-обмен с сайтом.
type Request struct {
	// Method — http.MethodGet или http.MethodPost.
	Method string

	// URL — полный адрес запроса.
	URL string

	// Referer — страница, с которой браузер "пришёл" на запрос.
	Referer string

	// Form — тело POST-запроса (URL-encoded). Nil — пустое тело.
	Form url.Values

	// Delay — пауза перед запросом (0 — человекоподобные задержки выключены).
	Delay time.Duration
}

// Response — результат успешного обмена, прошедшего проверку на бан.
type Response struct {
	Method string
	Status int
	Header http.Header
	Body   []byte
}

// Sender — абстракция одного HTTP-обмена. Реализуется Client,
// в тестах подменяется заглушкой.
type Sender interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Client — HTTP-клиент одной задачи: прокси, cookie jar с сессией
// аккаунта и фиксированный профиль заголовков.
type Client struct {
	http *http.Client
}

// NewClient создаёт клиент задачи.
//
// proxy — адрес "host:port" ("" — без прокси); session — значение
// сессионного cookie аккаунта, высаживается в jar до первого запроса.
func NewClient(proxy, session string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("new cookie jar: %w", err)
	}

	siteURL, err := url.Parse("https://" + headerHost)
	if err != nil {
		return nil, fmt.Errorf("parse site url: %w", err)
	}

	if session != "" {
		jar.SetCookies(siteURL, []*http.Cookie{{
			Name:   sessionCookie,
			Value:  session,
			Domain: siteDomain,
			Path:   "/",
			Secure: true,
		}})
	}

	tr := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   requestTimeout,
			KeepAlive: tcpKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}

	if proxy != "" {
		proxyURL, err := url.Parse("https://" + proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy address %q: %w", proxy, err)
		}
		tr.Proxy = http.ProxyURL(proxyURL)
	}

	return &Client{
		http: &http.Client{
			Jar:       jar,
			Timeout:   requestTimeout,
			Transport: tr,
		},
	}, nil
}

// Do выполняет один обмен: пауза, запрос с браузерными заголовками,
// классификация сбоя, проверка ответа на антибот-челлендж.
// Cookies ответа сохраняются в jar для последующих запросов задачи.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if req.Delay > 0 {
		select {
		case <-time.After(req.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var body io.Reader
	if req.Method == http.MethodPost && req.Form != nil {
		body = strings.NewReader(req.Form.Encode())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	c.setHeaders(httpReq, req)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}

	result := &Response{
		Method: req.Method,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   raw,
	}

	if ban := result.BanCheck(); ban != nil {
		return nil, ban
	}
	return result, nil
}

// setHeaders выставляет браузерный профиль заголовков.
func (c *Client) setHeaders(httpReq *http.Request, req Request) {
	h := httpReq.Header
	h.Set("User-Agent", headerUserAgent)
	h.Set("Accept", headerAccept)
	h.Set("Accept-Language", headerAcceptLanguage)
	h.Set("Accept-Encoding", headerAcceptEncoding)
	h.Set("Referer", req.Referer)
	h.Set("x-requested-with", headerRequestedWith)
	h.Set("x-spa-version", headerSpaVersion)
	h.Set("DNT", "1")
	h.Set("Sec-Fetch-Dest", headerSecFetchDest)
	h.Set("Sec-Fetch-Mode", headerSecFetchMode)
	h.Set("Sec-Fetch-Site", headerSecFetchSite)
	h.Set("Pragma", "no-cache")
	h.Set("Cache-Control", "no-cache")

	if req.Method == http.MethodPost {
		h.Set("Origin", headerOrigin)
		if req.Form != nil {
			h.Set("Content-Type", "application/x-www-form-urlencoded")
		} else {
			h.Set("Content-Length", "0")
		}
	}
}

// BanCheck распознаёт отпечатки антибот-защиты в ответе.
//
// Variti подписывается в заголовке Server; DDOS-Guard отдаёт либо
// страницу челленджа, либо подменённое пустое тело на GET.
func (r *Response) BanCheck() *BanError {
	server := r.Header.Get("Server")

	if strings.HasPrefix(server, "Variti") {
		return &BanError{Kind: BanVariti}
	}

	if server == "ddos-guard" {
		if strings.Contains(string(r.Body), "<title>DDOS-GUARD</title>") {
			return &BanError{Kind: BanDDOSGuard}
		}
		if r.Method == http.MethodGet && len(r.Body) == 0 {
			return &BanError{Kind: BanDDOSGuard}
		}
	}

	return nil
}

// classify переводит сетевой сбой в ErrTimeout либо ErrConnection.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrConnection, err)
}

// HumanDelay возвращает случайную паузу из диапазона [lo, hi] (в единицах
// по 10 мс), либо 0, если человекоподобные задержки выключены.
func HumanDelay(enabled bool, lo, hi int) time.Duration {
	if !enabled || hi < lo {
		return 0
	}
	units := lo + rand.IntN(hi-lo+1)
	return time.Duration(units) * 10 * time.Millisecond
}
