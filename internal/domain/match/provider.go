package match

import "context"

// Provider reads the upstream schedule feed. Sports, stream and embed
// payloads are returned as raw bytes because they are served unchanged.
type Provider interface {
	FetchSports(ctx context.Context) ([]byte, error)
	FetchMatches(ctx context.Context, sport string) ([]RawMatch, error)
	FetchStream(ctx context.Context, source, id string) ([]byte, error)
	FetchStreamEmbed(ctx context.Context, id string) ([]byte, error)
}
