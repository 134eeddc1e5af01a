package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий хранилища чанков
const (
	ChunkSaved   = "chunk.saved"
	ChunkDeleted = "chunk.deleted"
)

// NodeID идентифицирует процесс; ставится в Metadata["node"] каждого события
var NodeID = uuid.NewString()

// Envelope контейнер события
type Envelope struct {
	ID            string            `json:"id"`         // UUID
	Timestamp     time.Time         `json:"timestamp"`  // UTC
	Source        string            `json:"source"`     // имя компонента-источника
	EventType     string            `json:"event_type"` // chunk.saved, chunk.deleted
	Version       int               `json:"version"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Priority      int               `json:"priority"` // 0=Low … 9=Critical
	Payload       []byte            `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ChunkEvent полезная нагрузка событий chunk.*
type ChunkEvent struct {
	Region string `json:"region"`
	X      int    `json:"x"`
	Z      int    `json:"z"`
	Size   int    `json:"size,omitempty"` // размер закодированного чанка в байтах
}

// NewEnvelope создаёт конверт с новым UUID и текущим временем
func NewEnvelope(source, eventType string, payload []byte) *Envelope {
	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Payload:   payload,
		Metadata:  map[string]string{"node": NodeID},
	}
}

// FromThisNode сообщает, опубликовано ли событие этим процессом
func (e *Envelope) FromThisNode() bool {
	return e.Metadata["node"] == NodeID
}

// NewChunkEnvelope кодирует ChunkEvent в JSON и упаковывает его
func NewChunkEnvelope(source, eventType string, ev ChunkEvent) (*Envelope, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshal chunk event: %w", err)
	}
	env := NewEnvelope(source, eventType, payload)
	env.Metadata["region"] = ev.Region
	return env, nil
}

// DecodeChunkEvent достаёт ChunkEvent из конверта
func DecodeChunkEvent(env *Envelope) (ChunkEvent, error) {
	var ev ChunkEvent
	if err := json.Unmarshal(env.Payload, &ev); err != nil {
		return ev, fmt.Errorf("decode %s payload: %w", env.EventType, err)
	}
	return ev, nil
}
