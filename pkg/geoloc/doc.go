// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package geoloc maps IP addresses to geographic locations.
//
// It builds a longest-prefix-match trie from MaxMind GeoLite2 City CSV
// exports, serializes it to a single file for reuse, and answers point
// lookups for both IPv4 and IPv6 addresses. The trie is built once and
// is read-only afterwards, so concurrent lookups need no synchronization.
package geoloc
