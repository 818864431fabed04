package session

// Store is session scoped key value storage. Values survive across workflow
// invocations that share a session id and are independent of workflow state.
type Store interface {
	Put(sessionId string, key string, value any) error
	Get(sessionId string, key string) (any, bool, error)
	Delete(sessionId string, key string) error
	Clear(sessionId string) error
}
