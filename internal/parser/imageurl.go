// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import (
	"net/url"
	"regexp"
	"strings"
)

// DriveViewPrefix is the canonical direct-fetch form of a Drive file.
const DriveViewPrefix = "https://drive.google.com/uc?export=view&id="

var (
	driveFilePath = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
	bareDriveID   = regexp.MustCompile(`^[A-Za-z0-9_-]{28,}$`)
	driveIDValue  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

var driveHosts = map[string]bool{
	"drive.google.com":     true,
	"www.drive.google.com": true,
	"docs.google.com":      true,
}

// NormalizeImageURL rewrites a raw image reference from the sheet into the
// single URL the catalog serves, or "" when it cannot be used.
//
//   - Drive share links (.../file/d/<ID>/view) and Drive open/uc links
//     become DriveViewPrefix+<ID>
//   - a bare Drive file id (28 or more of [A-Za-z0-9_-]) becomes the same
//   - other absolute http(s) URLs, CDN and object storage hosts included,
//     and root-relative paths starting with "/" pass through unchanged
//   - anything else is rejected
//
// NormalizeImageURL(NormalizeImageURL(u)) == NormalizeImageURL(u) for all u.
func NormalizeImageURL(raw string) string {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "/"):
		return s
	case bareDriveID.MatchString(s):
		return DriveViewPrefix + s
	}

	// Links copied from the address bar without a scheme.
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "drive.google.com/") || strings.HasPrefix(lower, "docs.google.com/") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}

	if !driveHosts[strings.ToLower(u.Hostname())] {
		return s
	}
	if id := driveFileID(u); id != "" {
		return DriveViewPrefix + id
	}
	// Folders, documents and other Drive pages are not images.
	return ""
}

func driveFileID(u *url.URL) string {
	if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	switch strings.TrimSuffix(u.Path, "/") {
	case "/uc", "/open", "/thumbnail":
		if id := u.Query().Get("id"); driveIDValue.MatchString(id) {
			return id
		}
	}
	return ""
}
