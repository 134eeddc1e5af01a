package block

import (
	"sort"
	"sync"
)

// ID идентификатор типа блока в формате alpha-чанков (один байт на блок)
type ID uint8

// BlockID возвращает идентификатор как int (контракт world.Block)
func (id ID) BlockID() int { return int(id) }

// Name возвращает имя блока из регистра или "unknown"
func (id ID) Name() string {
	if info, ok := Get(id); ok {
		return info.Name
	}
	return "unknown"
}

// Константы ID блоков
const (
	AirID         ID = 0
	StoneID       ID = 1
	GrassID       ID = 2
	DirtID        ID = 3
	CobblestoneID ID = 4
	PlanksID      ID = 5
	BedrockID     ID = 7
	WaterID       ID = 9
	LavaID        ID = 11
	SandID        ID = 12
	GravelID      ID = 13
	LogID         ID = 17
	LeavesID      ID = 18
	SnowID        ID = 78
	IceID         ID = 79
)

// Info описывает тип блока
type Info struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Solid bool   `json:"solid"`
}

var (
	registry   = make(map[ID]Info)
	registryMu sync.RWMutex
)

// Регистрируем базовые типы блоков при импорте пакета
func init() {
	for _, info := range []Info{
		{AirID, "air", false},
		{StoneID, "stone", true},
		{GrassID, "grass", true},
		{DirtID, "dirt", true},
		{CobblestoneID, "cobblestone", true},
		{PlanksID, "planks", true},
		{BedrockID, "bedrock", true},
		{WaterID, "water", false},
		{LavaID, "lava", false},
		{SandID, "sand", true},
		{GravelID, "gravel", true},
		{LogID, "log", true},
		{LeavesID, "leaves", true},
		{SnowID, "snow", false},
		{IceID, "ice", true},
	} {
		Register(info)
	}
}

// Register добавляет тип блока в регистр (повторная регистрация заменяет запись)
func Register(info Info) {
	registryMu.Lock()
	registry[info.ID] = info
	registryMu.Unlock()
}

// Get возвращает описание блока
func Get(id ID) (Info, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	info, exists := registry[id]
	return info, exists
}

// IsValidID проверяет, зарегистрирован ли ID
func IsValidID(id ID) bool {
	_, exists := Get(id)
	return exists
}

// All возвращает все зарегистрированные блоки по возрастанию ID
func All() []Info {
	registryMu.RLock()
	defer registryMu.RUnlock()

	infos := make([]Info, 0, len(registry))
	for _, info := range registry {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
