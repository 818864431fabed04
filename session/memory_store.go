package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/buraksezer/consistent"
	"github.com/nmishr/flowgate/util"
	"github.com/spaolacci/murmur3"
)

const sweepInterval = 1 * time.Minute

type hasher struct{}

func (h hasher) Sum64(data []byte) uint64 {
	return murmur3.Sum64(data)
}

type member string

func (m member) String() string {
	return string(m)
}

type entry struct {
	value     any
	expiresAt time.Time
}

type memShard struct {
	mu       sync.RWMutex
	sessions map[string]map[string]entry
}

// MemoryStore partitions sessions across shards selected by a consistent
// hash ring keyed on the session id. A zero ttl keeps entries forever.
type MemoryStore struct {
	ring    *consistent.Consistent
	shards  map[string]*memShard
	ttl     time.Duration
	sweeper *util.TickWorker
	wg      sync.WaitGroup
}

func NewMemoryStore(shardCount int, ttl time.Duration) *MemoryStore {
	if shardCount <= 0 {
		shardCount = 1
	}
	cfg := consistent.Config{
		PartitionCount:    shardCount * 7,
		ReplicationFactor: 20,
		Load:              1.25,
		Hasher:            hasher{},
	}
	members := make([]consistent.Member, 0, shardCount)
	shards := make(map[string]*memShard, shardCount)
	for i := 0; i < shardCount; i++ {
		m := member(fmt.Sprintf("shard-%d", i))
		members = append(members, m)
		shards[m.String()] = &memShard{sessions: make(map[string]map[string]entry)}
	}
	s := &MemoryStore{
		ring:   consistent.New(members, cfg),
		shards: shards,
		ttl:    ttl,
	}
	if ttl > 0 {
		s.sweeper = util.NewTickWorker("session-sweeper", sweepInterval, s.sweep, &s.wg)
		s.sweeper.Start()
	}
	return s
}

var _ Store = new(MemoryStore)

func (s *MemoryStore) shardFor(sessionId string) *memShard {
	m := s.ring.LocateKey([]byte(sessionId))
	return s.shards[m.String()]
}

func (s *MemoryStore) Put(sessionId string, key string, value any) error {
	sh := s.shardFor(sessionId)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sess, ok := sh.sessions[sessionId]
	if !ok {
		sess = make(map[string]entry)
		sh.sessions[sessionId] = sess
	}
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	sess[key] = e
	return nil
}

func (s *MemoryStore) Get(sessionId string, key string) (any, bool, error) {
	sh := s.shardFor(sessionId)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	sess, ok := sh.sessions[sessionId]
	if !ok {
		return nil, false, nil
	}
	e, ok := sess[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Delete(sessionId string, key string) error {
	sh := s.shardFor(sessionId)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if sess, ok := sh.sessions[sessionId]; ok {
		delete(sess, key)
	}
	return nil
}

func (s *MemoryStore) Clear(sessionId string) error {
	sh := s.shardFor(sessionId)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.sessions, sessionId)
	return nil
}

func (s *MemoryStore) sweep() {
	now := time.Now()
	for _, sh := range s.shards {
		sh.mu.Lock()
		for sid, sess := range sh.sessions {
			for key, e := range sess {
				if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
					delete(sess, key)
				}
			}
			if len(sess) == 0 {
				delete(sh.sessions, sid)
			}
		}
		sh.mu.Unlock()
	}
}

func (s *MemoryStore) Stop() {
	if s.sweeper != nil && s.sweeper.IsRunning() {
		s.sweeper.Stop()
	}
	s.wg.Wait()
}
