package web

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// handleStatus returns the current pipeline snapshot.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.ctrl.Snapshot())
}

// handleReset returns chaos and synthesis to rest.
func (s *Server) handleReset(c *fiber.Ctx) error {
	s.ctrl.Reset()
	return c.JSON(fiber.Map{"reset": true})
}

// AudioRequest toggles speaker output.
type AudioRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleAudio(c *fiber.Ctx) error {
	var req AudioRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	s.ctrl.SetAudioEnabled(req.Enabled)
	return c.JSON(fiber.Map{"enabled": req.Enabled})
}

// ConfigRequest adjusts pipeline tuning at runtime. Absent fields are
// left unchanged.
type ConfigRequest struct {
	DecayTimeMs  *float64 `json:"decay_time_ms"`
	LocalWeight  *float64 `json:"local_weight"`
	GlobalWeight *float64 `json:"global_weight"`
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	var req ConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.DecayTimeMs != nil {
		d := time.Duration(*req.DecayTimeMs * float64(time.Millisecond))
		if err := s.ctrl.SetDecayTime(d); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	if req.LocalWeight != nil || req.GlobalWeight != nil {
		st := s.ctrl.Snapshot()
		local := st.Chaos.LocalWeight
		global := st.Chaos.GlobalWeight
		if req.LocalWeight != nil {
			local = *req.LocalWeight
		}
		if req.GlobalWeight != nil {
			global = *req.GlobalWeight
		}
		if err := s.ctrl.SetWeights(local, global); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	return c.JSON(s.ctrl.Snapshot())
}
