package cfgtree_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/KimNorgaard/go-cfgtree/section"
)

type Other struct {
	Label  string
	Weight float64
}

type Example struct {
	Count  int `cfg:",required"`
	Tags   []string
	Nested Other
}

type Location struct {
	World string
	X, Y  int
}

type Server struct {
	Name       string
	MaxPlayers int
	Spawn      Location
	Warps      []Location
	Regions    map[string]Location
	Ports      map[string]int
	Admins     container.Set[string]
	Backlog    *container.Queue[int]
	Offsets    [3]int
	Timeout    time.Duration
	Started    time.Time
	ID         uuid.UUID
	Fallback   *Location
	Motd       string `cfg:",color"`
	Secret     string `cfg:"-"`
}

type WithSelf struct {
	Name  string
	Extra *section.Section `cfg:",self"`
}

type Chat struct {
	Motd  string   `cfg:",color"`
	Lines []string `cfg:",color=%"`
	Raw   string
}
