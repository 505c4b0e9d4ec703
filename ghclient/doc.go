/*
Copyright 2026 Contribcheck Authors
SPDX-License-Identifier: Apache-2.0
*/

// Package ghclient wraps the GitHub REST and GraphQL APIs behind the
// narrow surface the analysis pipeline needs: content fetching, changed
// files, check runs, and reviews. It supports both personal-token and
// App-installation authentication.
package ghclient
