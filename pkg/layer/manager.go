package layer

// Manager is the narrow contract shared by every concrete layer manager.
// Peer, WebVH, and Btco each satisfy it and additionally expose their own
// layer-specific operation (Create, Migrate, Migrate) — there is no single
// polymorphic "migrate" method because each manager's inputs differ
// (a domain for webvh, a Bitcoin provider and UTXO set for btco).
type Manager interface {
	Kind() Kind
}
