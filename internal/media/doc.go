// Package media searches the Pixabay API for calming images and videos.
//
// Results are cached for a few minutes per search term. When the API key is
// missing or rejected, or the API fails or returns nothing, the client serves
// a bundled set of nature images instead. Fallback content is never cached,
// so the next search retries the API.
package media
