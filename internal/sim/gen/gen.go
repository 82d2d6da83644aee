// Package gen holds the pure, deterministic room generator. Every function
// here is a total function of its arguments; wraparound on uint64 arithmetic
// is intended behavior. The outputs are part of the season's seed contract:
// changing any mixing step mid-season would fork the dungeon topology.
package gen

type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) Valid() bool { return d <= West }

func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	default:
		return "WEST"
	}
}

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "NORTH":
		return North, true
	case "SOUTH":
		return South, true
	case "EAST":
		return East, true
	case "WEST":
		return West, true
	}
	return North, false
}

// Adjacent returns the coordinates one step from (x, y) in direction d.
// North increases y, East increases x.
func Adjacent(x, y int, d Direction) (int, int) {
	switch d {
	case North:
		return x, y + 1
	case South:
		return x, y - 1
	case East:
		return x + 1, y
	default:
		return x - 1, y
	}
}

type WallState uint8

const (
	WallSolid WallState = iota
	WallRubble
	WallOpen
)

func (w WallState) String() string {
	switch w {
	case WallRubble:
		return "RUBBLE"
	case WallOpen:
		return "OPEN"
	default:
		return "SOLID"
	}
}

type CenterKind uint8

const (
	CenterEmpty CenterKind = iota
	CenterChest
	CenterBoss
)

func (c CenterKind) String() string {
	switch c {
	case CenterChest:
		return "CHEST"
	case CenterBoss:
		return "BOSS"
	default:
		return "EMPTY"
	}
}

// RoomHash mixes the season seed with room coordinates via a polynomial hash.
// Coordinates are sign-extended so negative values stay distinct from small
// positive ones.
func RoomHash(seed uint64, x, y int) uint64 {
	h := seed
	h = h*31 + uint64(int64(x))
	h = h*31 + uint64(int64(y))
	return h
}

// Walls derives a wall layout from a room hash. The entrance wall is forced
// Open so a freshly created room is always reachable from where it was
// entered. Each other wall consumes its own 8-bit slice of the hash:
// 0-5 Rubble (60%), 6-8 Solid (30%), 9 Open (10%).
func Walls(hash uint64, entrance Direction) [4]WallState {
	var walls [4]WallState
	for d := 0; d < 4; d++ {
		if d == int(entrance) {
			walls[d] = WallOpen
			continue
		}
		roll := (hash >> (uint(d) * 8)) % 10
		switch {
		case roll < 6:
			walls[d] = WallRubble
		case roll < 9:
			walls[d] = WallSolid
		default:
			walls[d] = WallOpen
		}
	}
	return walls
}

// StartWalls generates the season's starting room layout. The start room has
// no entrance, so each wall rolls independently: even hash Open, odd Rubble.
// No wall is ever Solid, so a fresh season cannot start boxed in.
func StartWalls(seed uint64) [4]WallState {
	var walls [4]WallState
	for d := 0; d < 4; d++ {
		if (seed*31+uint64(d))%2 == 0 {
			walls[d] = WallOpen
		} else {
			walls[d] = WallRubble
		}
	}
	return walls
}

// Depth is the Chebyshev distance from the start room.
func Depth(x, y, startX, startY int) int {
	dx := absInt(x - startX)
	dy := absInt(y - startY)
	if dx > dy {
		return dx
	}
	return dy
}

// RoomCenter decides what occupies the middle of a room. Depth-0 rooms are
// always empty, depth-1 rooms roll a 50% chest (one neighbor of the start
// room, chosen by seed%4, is forced to a chest so every season has a
// reachable early reward), and deeper rooms roll a 50% boss with a 4-valued
// variant id.
func RoomCenter(seed uint64, x, y, depth, startX, startY int) (CenterKind, int) {
	hash := RoomHash(seed, x, y)

	if depth == 1 {
		if isForcedChest(seed, x, y, startX, startY) || hash%100 < 50 {
			return CenterChest, 1
		}
		return CenterEmpty, 0
	}

	if depth >= 2 && hash%100 < 50 {
		return CenterBoss, int(hash%4) + 1
	}

	return CenterEmpty, 0
}

func isForcedChest(seed uint64, x, y, startX, startY int) bool {
	var ex, ey int
	switch seed % 4 {
	case 0:
		ex, ey = startX, startY+1
	case 1:
		ex, ey = startX, startY-1
	case 2:
		ex, ey = startX+1, startY
	default:
		ex, ey = startX-1, startY
	}
	return x == ex && y == ey
}

// BossHP scales boss health by depth and variant, saturating at maxHP.
func BossHP(depth, bossID int, baseHP, maxHP uint64) uint64 {
	depthMult := 1 + uint64(depth)/4
	idMult := 1 + uint64(bossID)%5
	hp := satMul(satMul(baseHP, depthMult), idMult)
	if hp > maxHP {
		return maxHP
	}
	return hp
}

// BaseTicks returns the job duration requirement for a given dungeon depth.
// The requirement steps up once every 10 depth levels.
func BaseTicks(depth int, base uint64) uint64 {
	return base * (uint64(depth)/10 + 1)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/a != b {
		return ^uint64(0)
	}
	return p
}
