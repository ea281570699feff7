package bot

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/lox/trainheist/internal/deck"
)

// LuaBot delegates planning to a Lua script defining
//
//	function plan(view) ... return "collect" end
//
// view carries player, turn, slot, hand (card keys), car, spot, on_roof,
// gold_here, bars, credits, bullets_left and sheriff_car. Returning
// "drawAndPass" draws instead of playing. Errors and unknown answers fall back
// to the first card in hand.
type LuaBot struct {
	mu     sync.Mutex
	L      *lua.LState
	plan   *lua.LFunction
	logger *log.Logger
}

// NewLuaBot compiles source and looks up its plan function
func NewLuaBot(source string, logger *log.Logger) (*LuaBot, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: false})
	if err := L.DoString(source); err != nil {
		L.Close()
		return nil, fmt.Errorf("load lua policy: %w", err)
	}
	fn, ok := L.GetGlobal("plan").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("lua policy must define a plan(view) function")
	}
	return &LuaBot{L: L, plan: fn, logger: logger.WithPrefix("luabot")}, nil
}

// LoadLuaBot reads a policy script from disk
func LoadLuaBot(path string, logger *log.Logger) (*LuaBot, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lua policy: %w", err)
	}
	return NewLuaBot(string(src), logger)
}

// Close releases the Lua state
func (b *LuaBot) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.L.Close()
}

// Plan runs the script's plan function
func (b *LuaBot) Plan(view PlanningView) Decision {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.L.CallByParam(lua.P{Fn: b.plan, NRet: 1, Protect: true}, b.viewTable(view))
	if err != nil {
		b.logger.Warn("Lua policy failed, playing first card", "player", view.Player, "error", err)
		return FirstCard{}.Plan(view)
	}
	ret := b.L.Get(-1)
	b.L.Pop(1)

	answer := lua.LVAsString(ret)
	k, err := deck.ParseKind(answer)
	if err != nil {
		b.logger.Warn("Lua policy returned unknown card", "player", view.Player, "answer", answer)
		return FirstCard{}.Plan(view)
	}
	if k == deck.DrawAndPass {
		return Decision{DrawAndPass: true}
	}
	return Decision{Kind: k}
}

func (b *LuaBot) viewTable(view PlanningView) *lua.LTable {
	t := b.L.NewTable()
	t.RawSetString("player", lua.LString(view.Player))
	t.RawSetString("turn", lua.LString(view.Turn.String()))
	t.RawSetString("slot", lua.LNumber(view.Slot+1))

	hand := b.L.NewTable()
	for _, k := range view.Hand {
		hand.Append(lua.LString(k.String()))
	}
	t.RawSetString("hand", hand)
	t.RawSetString("sheriff_car", lua.LNumber(view.Snapshot.SheriffCar))

	if me, ok := view.Me(); ok {
		t.RawSetString("car", lua.LNumber(me.Position.Car))
		t.RawSetString("spot", lua.LNumber(me.Position.Spot))
		t.RawSetString("on_roof", lua.LBool(me.Position.OnRoof))
		t.RawSetString("bars", lua.LNumber(me.GoldBars))
		t.RawSetString("credits", lua.LNumber(me.Credits))
		t.RawSetString("bullets_left", lua.LNumber(max(0, me.MaxBullets-me.BulletsUsed)))
		for _, w := range view.Snapshot.Wagons {
			if w.Car == me.Position.Car {
				gold := w.Inside
				if me.Position.OnRoof {
					gold = w.Roof
				}
				t.RawSetString("gold_here", lua.LNumber(gold))
			}
		}
	}
	return t
}
