package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxAuthChallenge is used for prefixing login challenge redis key
	PfxAuthChallenge = "authChallenge"
	// PfxAuthSession is used for prefixing session redis key
	PfxAuthSession = "authSession"
	// PfxHttpCache is used for prefixing cached http response redis key
	PfxHttpCache = "httpCache"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the key prefix, used as a metrics tag
func GetPrefix(key string) string {
	if idx := strings.Index(key, ":"); idx > 0 {
		return key[:idx]
	}
	return key
}
