package session

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/KhYulian/Mapty-App/internal/workout"

	"github.com/gofiber/fiber/v2"
)

// ClickDispatcher forwards a map click reported by the browser to whatever
// handler the controller registered through MapAdapter.OnClick.
type ClickDispatcher interface {
	DispatchClick(coords workout.Coords) bool
}

// eventLoop runs one event handler at a time, like a browser UI thread.
type eventLoop struct {
	mu   sync.Mutex
	ctrl *Controller
}

func (l *eventLoop) run(fn func(*Controller) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.ctrl)
}

type coordsBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (b coordsBody) coords() workout.Coords {
	return workout.Coords{b.Lat, b.Lng}
}

func RegisterRoutes(r fiber.Router, ctrl *Controller, clicks ClickDispatcher, authMiddleware fiber.Handler) {
	loop := &eventLoop{ctrl: ctrl}

	stateResponse := func(c *fiber.Ctx, status int) error {
		var state State
		var count int
		_ = loop.run(func(ctrl *Controller) error {
			state = ctrl.State()
			count = ctrl.store.Len()
			return nil
		})
		return c.Status(status).JSON(fiber.Map{"state": state, "workouts": count})
	}

	r.Get("/state", func(c *fiber.Ctx) error {
		return stateResponse(c, fiber.StatusOK)
	})

	r.Get("/workouts", func(c *fiber.Ctx) error {
		var rows []Row
		_ = loop.run(func(ctrl *Controller) error {
			rows = ctrl.Rows()
			return nil
		})
		return c.JSON(rows)
	})

	r.Post("/location", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			coordsBody
			Error string `json:"error"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		geo := GeolocatorFunc(func(context.Context) (workout.Coords, error) {
			if body.Error != "" {
				return workout.Coords{}, errors.New(body.Error)
			}
			return body.coords(), nil
		})
		err := loop.run(func(ctrl *Controller) error {
			return ctrl.Locate(c.Context(), geo)
		})
		if err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
		}
		return stateResponse(c, fiber.StatusOK)
	})

	r.Post("/map/click", authMiddleware, func(c *fiber.Ctx) error {
		var body coordsBody
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		var handled bool
		_ = loop.run(func(*Controller) error {
			handled = clicks.DispatchClick(body.coords())
			return nil
		})
		if !handled {
			return fiber.NewError(fiber.StatusConflict, "map is not ready")
		}
		return stateResponse(c, fiber.StatusOK)
	})

	r.Post("/form/type", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Type workout.Type `json:"type"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		err := loop.run(func(ctrl *Controller) error {
			return ctrl.ToggleType(body.Type)
		})
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}
		return stateResponse(c, fiber.StatusOK)
	})

	r.Post("/form/submit", authMiddleware, func(c *fiber.Ctx) error {
		var in FormInput
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		var w workout.Workout
		err := loop.run(func(ctrl *Controller) error {
			var err error
			w, err = ctrl.Submit(c.Context(), in)
			return err
		})
		if err != nil {
			if w.ID == "" {
				return fiber.NewError(statusFor(err), err.Error())
			}
			log.Printf("workout %s stored but snapshot write failed: %v", w.ID, err)
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(rowFor(w))
	})

	r.Post("/list/click", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			ListClick
			Confirm bool `json:"confirm"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		confirm := ConfirmFunc(func(string) bool { return body.Confirm })
		err := loop.run(func(ctrl *Controller) error {
			return ctrl.ListClicked(c.Context(), body.ListClick, confirm)
		})
		if err != nil {
			if statusFor(err) == fiber.StatusInternalServerError {
				log.Printf("list click %s on %q failed: %v", body.Target, body.WorkoutID, err)
			}
			return fiber.NewError(statusFor(err), err.Error())
		}
		return stateResponse(c, fiber.StatusOK)
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, workout.ErrInvalidInput), errors.Is(err, workout.ErrUnknownType):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrFormClosed):
		return fiber.StatusConflict
	case errors.Is(err, ErrUnknownTarget):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}
