package superski

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"
)

// BotInput drives a body without a player: it keeps skiing forward and fires
// random up-jet or down-jet bursts. Timing runs on simulated time.
type BotInput struct {
	Rand *rand.Rand

	// MinSpeed is the speed below which the bot runs instead of skis.
	MinSpeed float32
	Speed    func() float32

	elapsed     float32
	nextBurstAt float32
	stopBurstAt float32
	up, down    bool
	jumped      bool
}

func NewBotInput(seed int64, speed func() float32) *BotInput {
	return &BotInput{Rand: rand.New(rand.NewSource(seed)), MinSpeed: 2, Speed: speed}
}

func (b *BotInput) Sample(dt float32) InputSnapshot {
	b.elapsed += dt
	in := InputSnapshot{Move: mgl32.Vec2{0, 1}, Ski: true}

	if b.Speed != nil && b.Speed() < b.MinSpeed {
		// Kick off on foot; a fresh press each time so the jump latch sees
		// an edge.
		in.Ski = false
		in.JumpJet = !b.jumped
		b.jumped = !b.jumped
		return in
	}

	if b.nextBurstAt <= b.elapsed {
		b.nextBurstAt = b.elapsed + float32(1+b.Rand.Intn(6))
		b.stopBurstAt = b.elapsed + 0.5 + b.Rand.Float32()*1.5

		if b.Rand.Intn(3) == 0 {
			log.Debugf("Bot down-jetting")
			b.up, b.down = false, true
		} else {
			log.Debugf("Bot up-jetting")
			b.up, b.down = true, false
		}
	}
	if b.stopBurstAt <= b.elapsed {
		b.up, b.down = false, false
	}
	in.JumpJet = b.up
	in.DownJet = b.down
	return in
}
