// internal/requestinfo/requestinfo.go
//
// Per-request metadata: user-agent fingerprint, client IP, and optional
// geolocation.  These structs are inert—no handles, no large buffers—so
// they are safe to log or JSON-encode.  The gateway logs them alongside
// each submission event for operational forensics.
//
// Dependencies
// • github.com/avct/uasurfer          (UA parsing)
// • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)
package requestinfo

import (
	"context"
	"net"
	"strconv"
	"strings"
	"time"

	surfer "github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

//
//  -----------------------------
//  Struct definitions
//  -----------------------------
//

// UA holds the parsed user-agent properties we care about.
type UA struct {
	Raw     string // Entire User-Agent header
	Browser string // "Chrome", "Firefox", "Safari", ...
	Version string // "124.0.6367"
	OS      string // "WindowsNT", "MacOSX", "Android", ...
	Device  string // "Desktop", "Mobile", "Tablet", or "Other"
	IsBot   bool
}

// Geo holds IP-based geolocation hints.  Best-effort; empty when the
// database has no match or is not configured.
type Geo struct {
	IP         net.IP
	CountryISO string // "US", "CA", "FR", ...
	City       string
}

// Info is attached to the request context by the Enrich middleware.
type Info struct {
	UA        UA
	Geo       Geo
	Timestamp time.Time
}

//
//  -----------------------------
//  Package-level state
//  -----------------------------
//

// geoReader is a singleton MaxMind handle.  Safe for concurrent reads,
// which is all we ever perform.  Stays nil when no database is configured,
// in which case lookups return only the IP.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2 database at startup.  Call it from main before
// serving; skipping it simply disables geo enrichment.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil if
// the middleware has not run.
func FromContext(ctx context.Context) *Info {
	v, _ := ctx.Value(ctxKey{}).(*Info)
	return v
}

//
//  -----------------------------
//  Internal helpers
//  -----------------------------
//

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(raw string) UA {
	u := surfer.Parse(raw)

	info := UA{
		Raw:     raw,
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version: versionToString(u.Browser.Version),
		OS:      strings.TrimPrefix(u.OS.Name.String(), "OS"),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// versionToString renders a semantic version in dotted form while trimming
// trailing zeros, e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	if v.Major == 0 && v.Minor == 0 && v.Patch == 0 {
		return ""
	}
	out := strconv.Itoa(v.Major)
	if v.Minor != 0 || v.Patch != 0 {
		out += "." + strconv.Itoa(v.Minor)
	}
	if v.Patch != 0 {
		out += "." + strconv.Itoa(v.Patch)
	}
	return out
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	if geoReader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
