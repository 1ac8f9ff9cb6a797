// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package media moves uploaded profile images from the local temp directory
// into public object storage.
//
// An [Uploader] takes the path of a temp file written by [TempFiles], pushes
// it to an [ObjectStore] and returns its public URL. The temp file is removed
// whether or not the push succeeds. Two object stores are provided: an
// S3-compatible bucket and a local directory served under /static.
package media
