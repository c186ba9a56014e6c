package media

import (
	"regexp"
	"strings"
)

// DefaultPublicPrefix is the path under which object storage is proxied.
const DefaultPublicPrefix = "/media/"

// DefaultResolver rewrites URLs of the internal MinIO endpoint.
var DefaultResolver = NewResolver([]string{"minio:9000"}, DefaultPublicPrefix)

// Resolver maps media references to deliverable URLs. Absolute URLs that
// point at one of the internal storage hosts have their scheme, host and
// bucket segment replaced by PublicPrefix.
type Resolver struct {
	PublicPrefix string

	storage *regexp.Regexp
}

// NewResolver builds a Resolver for the given internal storage hosts
// (host[:port]). An empty prefix falls back to DefaultPublicPrefix.
func NewResolver(storageHosts []string, publicPrefix string) *Resolver {
	if publicPrefix == "" {
		publicPrefix = DefaultPublicPrefix
	}
	if !strings.HasSuffix(publicPrefix, "/") {
		publicPrefix += "/"
	}
	r := &Resolver{PublicPrefix: publicPrefix}
	var hosts []string
	for _, h := range storageHosts {
		h = strings.TrimSpace(h)
		h = strings.TrimPrefix(strings.TrimPrefix(h, "http://"), "https://")
		h = strings.TrimRight(h, "/")
		if h != "" {
			hosts = append(hosts, regexp.QuoteMeta(h))
		}
	}
	if len(hosts) > 0 {
		r.storage = regexp.MustCompile(`^https?://(?:` + strings.Join(hosts, "|") + `)/[^/]+/`)
	}
	return r
}

// Resolve returns the URL of the requested size variant, falling back to
// the canonical URL, rewritten for public delivery. A zero Ref yields "".
func (r *Resolver) Resolve(ref Ref, variant string) string {
	var u string
	switch {
	case ref.Media != nil:
		u = ref.Media.URL
		if variant != "" {
			if s, ok := ref.Media.Sizes[variant]; ok && s.URL != "" {
				u = s.URL
			}
		}
	default:
		u = ref.URL
	}
	return r.Rewrite(u)
}

// ResolveMedia is Resolve for a media object that may be nil.
func (r *Resolver) ResolveMedia(m *Media, variant string) string {
	if m == nil {
		return ""
	}
	return r.Resolve(MediaRef(m), variant)
}

// Rewrite maps an internal object-storage URL to its public proxy path.
// Other URLs are returned unchanged.
func (r *Resolver) Rewrite(u string) string {
	u = strings.TrimSpace(u)
	if u == "" || r == nil || r.storage == nil {
		return u
	}
	loc := r.storage.FindStringIndex(u)
	if loc == nil {
		return u
	}
	return r.PublicPrefix + u[loc[1]:]
}

// Resolve resolves ref with DefaultResolver.
func Resolve(ref Ref, variant string) string {
	return DefaultResolver.Resolve(ref, variant)
}
