package courier

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// CapacityPerRun is the number of orders a courier can carry on one trip.
const CapacityPerRun = 3

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier is the aggregate root for a delivery person.
type Courier struct {
	id     kernel.UUID
	name   string
	status Status
	guard  guard.ConstructorGuard
}

// NewCourier creates a courier that starts Available.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	return RestoreCourier(id, name, Available)
}

// RestoreCourier rebuilds a courier from persisted state.
func RestoreCourier(id kernel.UUID, name string, status Status) (*Courier, error) {
	courier := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		courier.setID(id),
		courier.setName(name),
		courier.setStatus(status),
	); err != nil {
		return nil, err
	}

	return courier, nil
}

func (c *Courier) IsEqual(other *Courier) bool {
	if other == nil {
		return false
	}
	return c.id.IsEqual(other.id)
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Status() Status {
	return c.status
}

func (c *Courier) IsAvailable() bool {
	return c.status == Available
}

// ChangeStatus moves the courier between Available and OffShift.
func (c *Courier) ChangeStatus(target Status) error {
	next, err := c.status.ChangeTo(target)
	if err != nil {
		return err
	}
	c.status = next
	return nil
}

// StartRun marks the courier as out on a delivery run.
func (c *Courier) StartRun() error {
	next, err := c.status.StartRun()
	if err != nil {
		return err
	}
	c.status = next
	return nil
}

// FinishRun returns the courier from a run.
func (c *Courier) FinishRun() error {
	next, err := c.status.FinishRun()
	if err != nil {
		return err
	}
	c.status = next
	return nil
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}

func (c *Courier) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	c.status = status
	return nil
}
