// Package repofs exposes read access to git repository content: file
// content, directory listings, commit history and ref resolution, for
// both committed history and the live working tree.
//
// Every expensive operation (git subprocess, filesystem read) is
// wrapped by a request-coalescing TTL cache: concurrent callers asking
// for the same thing share one underlying operation, and results are
// cached briefly (volatile ref/working-tree state) or for a long time
// (content-addressed history, which never changes under its hash).
//
// A Repository is safe for concurrent use and performs no writes to
// the repository beyond an optional pack-refs maintenance call.
package repofs
