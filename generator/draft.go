package generator

import (
	"context"
	"sort"
	"strings"

	"qrhub-admin/dtos"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Wizard steps.
const (
	StepInfo   = 1
	StepItems  = 2
	StepReview = 3
)

// catalogLimit is the page size used to load every product for the item selector.
const catalogLimit = 1000

// Draft is the state of the three-step wizard.
type Draft struct {
	Step        int              `json:"step"`
	BatchName   string           `json:"batch_name"`
	Description string           `json:"description"`
	Items       []dtos.BatchItem `json:"items"`
}

func NewDraft() *Draft {
	return &Draft{Step: StepInfo, Items: []dtos.BatchItem{}}
}

func (d *Draft) Reset() {
	*d = *NewDraft()
}

func (d *Draft) SetInfo(name, description string) {
	d.BatchName = name
	d.Description = description
}

// AddItem appends an empty line: no product, quantity 1.
func (d *Draft) AddItem() dtos.BatchItem {
	item := dtos.BatchItem{ID: uuid.New(), ProductID: 0, Quantity: 1}
	d.Items = append(d.Items, item)
	return item
}

func (d *Draft) UpdateItem(id uuid.UUID, productID, quantity int, product *dtos.Product) error {
	for i := range d.Items {
		if d.Items[i].ID == id {
			d.Items[i].ProductID = productID
			d.Items[i].Quantity = quantity
			d.Items[i].Product = product
			return nil
		}
	}
	return &dtos.ValidationError{Field: "id", Key: dtos.MsgItemNotFound}
}

func (d *Draft) RemoveItem(id uuid.UUID) error {
	for i := range d.Items {
		if d.Items[i].ID == id {
			d.Items = append(d.Items[:i], d.Items[i+1:]...)
			return nil
		}
	}
	return &dtos.ValidationError{Field: "id", Key: dtos.MsgItemNotFound}
}

// StepValid reports whether step and every step before it are complete.
func (d *Draft) StepValid(step int) bool {
	infoOK := strings.TrimSpace(d.BatchName) != ""
	if step <= StepInfo {
		return infoOK
	}
	if !infoOK || len(d.Items) == 0 {
		return false
	}
	for _, it := range d.Items {
		if !it.Valid() {
			return false
		}
	}
	return true
}

func (d *Draft) Next() error {
	if !d.StepValid(d.Step) {
		return &dtos.ValidationError{Field: "step", Key: dtos.MsgStepIncomplete}
	}
	if d.Step < StepReview {
		d.Step++
	}
	return nil
}

func (d *Draft) Prev() {
	if d.Step > StepInfo {
		d.Step--
	}
}

// GoTo jumps to step if every earlier step is complete.
func (d *Draft) GoTo(step int) error {
	if step < StepInfo || step > StepReview {
		return &dtos.ValidationError{Field: "step", Key: dtos.MsgStepIncomplete}
	}
	if step > StepInfo && !d.StepValid(step-1) {
		return &dtos.ValidationError{Field: "step", Key: dtos.MsgStepIncomplete}
	}
	d.Step = step
	return nil
}

func (d *Draft) TotalCodes() int {
	total := 0
	for _, it := range d.Items {
		total += it.Quantity
	}
	return total
}

func (d *Draft) Request() dtos.BatchRequest {
	details := make([]dtos.BatchDetail, 0, len(d.Items))
	for _, it := range d.Items {
		details = append(details, dtos.BatchDetail{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return dtos.BatchRequest{
		BatchName:   strings.TrimSpace(d.BatchName),
		Description: d.Description,
		Details:     details,
	}
}

func (d *Draft) clone() Draft {
	cp := *d
	cp.Items = append([]dtos.BatchItem(nil), d.Items...)
	return cp
}

// DraftView is the draft as returned to the dashboard.
type DraftView struct {
	Draft
	TotalCodes int  `json:"totalCodes"`
	CanSubmit  bool `json:"canSubmit"`
}

func (w *Workflow) view() DraftView {
	return DraftView{
		Draft:      w.draft.clone(),
		TotalCodes: w.draft.TotalCodes(),
		CanSubmit:  w.draft.StepValid(StepReview),
	}
}

// Draft returns the wizard state.
func (w *Workflow) Draft() DraftView {
	w.touch()
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view()
}

// EditDraft applies fn to the draft under the workflow lock.
func (w *Workflow) EditDraft(fn func(d *Draft) error) (DraftView, error) {
	w.touch()
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(w.draft); err != nil {
		return w.view(), err
	}
	return w.view(), nil
}

// SetItem updates a draft line and attaches the product from the loaded
// catalog, if known.
func (w *Workflow) SetItem(id uuid.UUID, productID, quantity int) (DraftView, error) {
	return w.EditDraft(func(d *Draft) error {
		var product *dtos.Product
		if p, ok := w.products[productID]; ok {
			product = &p
		}
		return d.UpdateItem(id, productID, quantity, product)
	})
}

// ProductOption is one entry of the item selector.
type ProductOption struct {
	ID    int    `json:"value"`
	Label string `json:"label"`
}

// Catalog loads every product and brand and returns the selector options.
func (w *Workflow) Catalog(ctx context.Context) ([]ProductOption, error) {
	w.touch()

	var (
		products *dtos.ProductPage
		brands   []dtos.Brand
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = w.backend.ListProducts(gctx, w.owner.Token, 1, catalogLimit)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = w.backend.ListBrands(gctx, w.owner.Token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[int]string, len(brands))
	for _, b := range brands {
		names[b.ID] = b.Name
	}

	byID := make(map[int]dtos.Product, len(products.Products))
	options := make([]ProductOption, 0, len(products.Products))
	for _, p := range products.Products {
		if p.Brand == nil {
			if name, ok := names[p.BrandID]; ok {
				p.Brand = &dtos.Brand{ID: p.BrandID, Name: name}
			}
		}
		byID[p.ID] = p
		options = append(options, ProductOption{ID: p.ID, Label: p.Label(names)})
	}
	sort.SliceStable(options, func(i, j int) bool { return options[i].Label < options[j].Label })

	w.mu.Lock()
	w.products = byID
	w.mu.Unlock()

	return options, nil
}
