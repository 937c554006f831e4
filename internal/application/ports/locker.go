package ports

// DocumentLocker serialises read-modify-write of one commission document
// within this process.
type DocumentLocker interface {
	// Lock blocks until key is held and returns the release func.
	Lock(key string) (unlock func())
}
