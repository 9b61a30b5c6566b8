package admin

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/domain/share"
	"ayurveda-repository/internal/platform/logger"
	"ayurveda-repository/internal/platform/metrics"
)

const DefaultSuccessTTL = 5 * time.Second

// Deps son las dependencias compartidas por todos los controllers.
type Deps struct {
	Records  *plants.Service
	Uploader *plants.Uploader
	Metrics  *metrics.Metrics // opcional
	Log      logger.Logger    // opcional
	BaseURL  string

	// Cuánto dura visible el mensaje de éxito.
	SuccessTTL time.Duration
}

// Controller orquesta el alta de plantas para un admin:
// insert -> upload imágenes -> patch imágenes -> refresh del listado.
// Solo una submission puede estar en curso (flag busy).
type Controller struct {
	records    *plants.Service
	uploader   *plants.Uploader
	metrics    *metrics.Metrics
	log        logger.Logger
	baseURL    string
	successTTL time.Duration
	now        func() time.Time

	mu           sync.Mutex
	form         plants.Form
	files        []plants.ImageFile
	busy         bool
	errMsg       string
	success      string
	successUntil time.Time
	lastCreated  *plants.Plant
	shareOpen    bool
	shareTarget  *plants.Plant
	list         []plants.Plant
	loaded       bool

	// Registro creado cuyas imágenes no se pudieron adjuntar (ver RetryAttach).
	pending *pendingAttach
}

type pendingAttach struct {
	plant plants.Plant
	files []plants.ImageFile
}

func NewController(d Deps) *Controller {
	ttl := d.SuccessTTL
	if ttl <= 0 {
		ttl = DefaultSuccessTTL
	}
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		records:    d.Records,
		uploader:   d.Uploader,
		metrics:    d.Metrics,
		log:        log,
		baseURL:    share.BaseURLOr(d.BaseURL),
		successTTL: ttl,
		now:        time.Now,
		list:       []plants.Plant{},
	}
}

// SetForm reemplaza los valores del formulario. Ignorado mientras hay una submission en curso.
func (c *Controller) SetForm(f plants.Form) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.busy {
		c.form = f
	}
}

// SetFiles reemplaza los archivos pendientes. Ignorado mientras busy.
func (c *Controller) SetFiles(files []plants.ImageFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.busy {
		c.files = append([]plants.ImageFile(nil), files...)
	}
}

// Submit envía el formulario actual.
func (c *Controller) Submit(ctx context.Context) (plants.Plant, error) {
	return c.run(ctx, nil)
}

// SubmitForm setea formulario + archivos y envía, todo bajo el mismo chequeo de busy.
func (c *Controller) SubmitForm(ctx context.Context, f plants.Form, files []plants.ImageFile) (plants.Plant, error) {
	return c.run(ctx, func() {
		c.form = f
		c.files = append([]plants.ImageFile(nil), files...)
	})
}

func (c *Controller) run(ctx context.Context, apply func()) (plants.Plant, error) {
	form, files, err := c.begin(apply)
	if err != nil {
		return plants.Plant{}, err
	}
	defer c.end()

	// 1) validar
	if err := plants.ValidateName(form.Name); err != nil {
		return plants.Plant{}, c.fail(metrics.StageValidate, err)
	}

	// 2) normalizar
	in := form.Input()

	// 3) insert
	p, err := c.records.InsertRecord(ctx, in)
	if err != nil {
		return plants.Plant{}, c.fail(metrics.StageInsert, err)
	}
	c.metrics.PlantCreated()
	c.log.Info("plant created", map[string]any{"plant_id": p.ID, "name": p.Name})

	// 4) imágenes
	if len(files) > 0 {
		urls, err := c.attach(ctx, p, files)
		if err != nil {
			return p, err
		}
		p.Images = urls
	}

	// 5) éxito
	c.succeed(p)
	_ = c.Refresh(ctx)

	return p, nil
}

// RetryAttach reintenta upload + patch de imágenes para el último registro que quedó sin ellas.
func (c *Controller) RetryAttach(ctx context.Context) (plants.Plant, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return plants.Plant{}, busyError()
	}
	if c.pending == nil {
		c.mu.Unlock()
		return plants.Plant{}, &plants.Error{Kind: plants.KindValidation, Op: "retry", Message: "no pending image upload"}
	}
	c.busy = true
	c.errMsg = ""
	pending := *c.pending
	c.mu.Unlock()
	defer c.end()

	p := pending.plant
	urls, err := c.attach(ctx, p, pending.files)
	if err != nil {
		return p, err
	}
	p.Images = urls

	c.succeed(p)
	_ = c.Refresh(ctx)
	return p, nil
}

// attach sube y adjunta. Si falla deja el registro como pendiente.
func (c *Controller) attach(ctx context.Context, p plants.Plant, files []plants.ImageFile) ([]string, error) {
	urls, err := c.uploader.Upload(ctx, p.ID, files)
	if err != nil {
		c.markPending(p, files)
		return nil, c.fail(metrics.StageUpload, err)
	}
	c.metrics.ImagesStored(len(urls))

	if err := c.records.AttachImages(ctx, p.ID, urls); err != nil {
		c.markPending(p, files)
		return nil, c.fail(metrics.StageAttach, err)
	}
	return urls, nil
}

// Refresh recarga el listado completo desde el backend.
func (c *Controller) Refresh(ctx context.Context) error {
	items, err := c.records.ListRecords(ctx)
	if err != nil {
		c.metrics.WorkflowFailed(metrics.StageRefresh)
		c.setError(err)
		return err
	}

	c.mu.Lock()
	c.list = items
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// EnsureLoaded carga el listado la primera vez.
func (c *Controller) EnsureLoaded(ctx context.Context) error {
	c.mu.Lock()
	loaded := c.loaded
	c.mu.Unlock()
	if loaded {
		return nil
	}
	return c.Refresh(ctx)
}

// Search filtra el listado cargado, sin ir al backend.
func (c *Controller) Search(query string) []plants.Plant {
	c.mu.Lock()
	items := c.list
	c.mu.Unlock()
	return plants.Search(items, query)
}

// OpenShare abre el modal de QR para una planta del listado (o la última creada).
func (c *Controller) OpenShare(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastCreated != nil && c.lastCreated.ID == id {
		p := *c.lastCreated
		c.shareTarget = &p
		c.shareOpen = true
		return nil
	}
	for _, p := range c.list {
		if p.ID == id {
			p := p
			c.shareTarget = &p
			c.shareOpen = true
			return nil
		}
	}
	return &plants.Error{Kind: plants.KindNotFound, Op: "share", Message: "plant not found"}
}

func (c *Controller) CloseShare() {
	c.mu.Lock()
	c.shareOpen = false
	c.shareTarget = nil
	c.mu.Unlock()
}

func (c *Controller) DismissError() {
	c.mu.Lock()
	c.errMsg = ""
	c.mu.Unlock()
}

// ShareView es lo que muestra el modal de QR.
type ShareView struct {
	PlantID  string
	Name     string
	URL      string
	Filename string
}

// State es una foto del estado del controller.
type State struct {
	Form          plants.Form
	PendingFiles  []string
	Busy          bool
	Error         string
	Success       string
	LastCreated   *plants.Plant
	ShareOpen     bool
	Share         *ShareView
	PendingAttach string // id del registro sin imágenes adjuntas
	Plants        []plants.Plant
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	// el mensaje de éxito se limpia solo después de successTTL
	if c.success != "" && !c.now().Before(c.successUntil) {
		c.success = ""
	}

	names := make([]string, 0, len(c.files))
	for _, f := range c.files {
		names = append(names, f.Name)
	}

	st := State{
		Form:         c.form,
		PendingFiles: names,
		Busy:         c.busy,
		Error:        c.errMsg,
		Success:      c.success,
		ShareOpen:    c.shareOpen,
		Plants:       append([]plants.Plant(nil), c.list...),
	}
	if c.lastCreated != nil {
		p := *c.lastCreated
		st.LastCreated = &p
	}
	if c.shareOpen && c.shareTarget != nil {
		st.Share = &ShareView{
			PlantID:  c.shareTarget.ID,
			Name:     c.shareTarget.Name,
			URL:      share.CanonicalURL(c.baseURL, c.shareTarget.ID),
			Filename: share.Filename(c.shareTarget.Name, "png"),
		}
	}
	if c.pending != nil {
		st.PendingAttach = c.pending.plant.ID
	}
	return st
}

func (c *Controller) begin(apply func()) (plants.Form, []plants.ImageFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return plants.Form{}, nil, busyError()
	}
	if apply != nil {
		apply()
	}
	c.busy = true
	c.errMsg = ""
	c.success = ""

	return c.form, append([]plants.ImageFile(nil), c.files...), nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

func (c *Controller) succeed(p plants.Plant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.success = fmt.Sprintf("%s added successfully!", p.Name)
	c.successUntil = c.now().Add(c.successTTL)
	c.form = plants.Form{}
	c.files = nil
	c.pending = nil
	c.lastCreated = &p
	c.shareTarget = &p
	c.shareOpen = true
}

func (c *Controller) markPending(p plants.Plant, files []plants.ImageFile) {
	c.mu.Lock()
	c.pending = &pendingAttach{plant: p, files: append([]plants.ImageFile(nil), files...)}
	c.mu.Unlock()
}

func (c *Controller) fail(stage string, err error) error {
	c.metrics.WorkflowFailed(stage)
	c.log.Warn("admin workflow failed", map[string]any{"stage": stage, "error": err})
	c.setError(err)
	return err
}

func (c *Controller) setError(err error) {
	c.mu.Lock()
	c.errMsg = plants.MessageOf(err)
	c.mu.Unlock()
}

func busyError() error {
	return &plants.Error{Kind: plants.KindBusy, Op: "submit", Message: "a submission is already in progress"}
}
