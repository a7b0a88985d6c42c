// Package secret provides a small, dependency-light secret resolution layer
// for configuration values, mainly the API credentials.
//
// It supports:
//   - Strict environment expansion (see ExpandEnvStrict)
//   - Pluggable secret providers (see Provider)
//   - Resolving secret references in configuration values (see Resolver)
//
// References use the prefix "secretref:":
//   - Full value:  secretref:env:GITHUB_TOKEN
//   - File-backed: secretref:file:/run/secrets/github_token
//   - Inline use:  Bearer secretref:env:OPENAI_API_KEY
package secret
