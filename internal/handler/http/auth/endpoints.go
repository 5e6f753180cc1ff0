package auth

import (
	"net/url"
	"strings"
)

// Authentication routes.
const (
	LoginPath    = "/authentication/login"
	RegisterPath = "/authentication/register"
	LogoutPath   = "/authentication/logout"
)

// LoginURL returns the login page that sends the user to next afterwards.
func LoginURL(next string) string {
	next = SafeNext(next)
	if next == "/" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext returns next when it is a local path, "/" otherwise.
//
// Example:
//
//	SafeNext("/comment?article=3")   // "/comment?article=3"
//	SafeNext("//evil.example")       // "/"
//	SafeNext("https://evil.example") // "/"
//	SafeNext("/authentication/login") // "/"
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return "/"
	}
	if strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	if strings.ContainsAny(next, "\r\n\t") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	if strings.HasPrefix(u.Path, "/authentication/") {
		return "/"
	}
	return next
}
