package recovery

// BlobStore is the persistence port crash recovery reads from. The engine
// never touches storage directly; the caller injects whatever implements the
// key/value contract (the sqlite blob table in production).
type BlobStore interface {
	GetBlob(key string) (string, bool)
	SetBlob(key, value string) error
}
