package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/repository"

	"gorm.io/gorm"
)

// In-memory repository fakes. They implement just enough behavior for the
// service workflows: ID assignment, lookup by ID, and state mutation.

type mockTxManager struct{}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// --- products ---

type mockProductRepo struct {
	products map[uint]*model.Product
	nextID   uint
	stockErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uint]*model.Product), nextID: 1}
}

func (m *mockProductRepo) add(p model.Product) *model.Product {
	if p.ID == 0 {
		p.ID = m.nextID
	}
	if p.ID >= m.nextID {
		m.nextID = p.ID + 1
	}
	m.products[p.ID] = &p
	return m.products[p.ID]
}

func (m *mockProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = m.nextID
	m.nextID++
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Update(ctx context.Context, product *model.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *product
	m.products[product.ID] = &clone
	return nil
}

func (m *mockProductRepo) Delete(ctx context.Context, id uint) error {
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *mockProductRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Barcode == barcode {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProductRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Product, error) {
	return m.FindByID(ctx, id)
}

func (m *mockProductRepo) UpdateStock(ctx context.Context, id uint, stock int) error {
	if m.stockErr != nil {
		return m.stockErr
	}
	p, ok := m.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity = stock
	return nil
}

func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter, page, limit int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *mockProductRepo) CountCritical(ctx context.Context) (int64, error) {
	var n int64
	for _, p := range m.products {
		if p.IsCritical() {
			n++
		}
	}
	return n, nil
}

// --- customers ---

type mockCustomerRepo struct {
	customers map[uint]*model.Customer
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[uint]*model.Customer)}
}

func (m *mockCustomerRepo) add(c model.Customer) { m.customers[c.ID] = &c }

func (m *mockCustomerRepo) Create(ctx context.Context, customer *model.Customer) error {
	customer.ID = uint(len(m.customers) + 1)
	m.customers[customer.ID] = customer
	return nil
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *model.Customer) error { return nil }
func (m *mockCustomerRepo) Delete(ctx context.Context, id uint) error                  { return nil }

func (m *mockCustomerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (m *mockCustomerRepo) FindByIdentityNumber(ctx context.Context, identityNumber string) (*model.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCustomerRepo) List(ctx context.Context, search string, includeDeleted bool, page, limit int) ([]model.Customer, int64, error) {
	return nil, 0, nil
}

// --- employees ---

type mockEmployeeRepo struct {
	employees map[uint]*model.Employee
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[uint]*model.Employee)}
}

func (m *mockEmployeeRepo) add(e model.Employee) { m.employees[e.ID] = &e }

func (m *mockEmployeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	employee.ID = uint(len(m.employees) + 1)
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepo) Update(ctx context.Context, employee *model.Employee) error { return nil }
func (m *mockEmployeeRepo) Delete(ctx context.Context, id uint) error                  { return nil }

func (m *mockEmployeeRepo) FindByID(ctx context.Context, id uint) (*model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (m *mockEmployeeRepo) FindByIdentityNumber(ctx context.Context, identityNumber string) (*model.Employee, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(ctx context.Context, storeID uint, search string, page, limit int) ([]model.Employee, int64, error) {
	return nil, 0, nil
}

// --- sales ---

type mockSaleRepo struct {
	sales   map[uint]*model.Sale
	details []model.SaleDetail
	nextID  uint
	nextSeq int
}

func newMockSaleRepo() *mockSaleRepo {
	return &mockSaleRepo{sales: make(map[uint]*model.Sale), nextID: 1}
}

func (m *mockSaleRepo) Create(ctx context.Context, sale *model.Sale) error {
	sale.ID = m.nextID
	m.nextID++
	clone := *sale
	m.sales[sale.ID] = &clone
	return nil
}

func (m *mockSaleRepo) CreateDetail(ctx context.Context, detail *model.SaleDetail) error {
	detail.ID = uint(len(m.details) + 1)
	m.details = append(m.details, *detail)
	sale := m.sales[detail.SaleID]
	sale.Details = append(sale.Details, *detail)
	return nil
}

func (m *mockSaleRepo) FindByIDWithDetails(ctx context.Context, id uint) (*model.Sale, error) {
	sale, ok := m.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *sale
	return &clone, nil
}

func (m *mockSaleRepo) UpdateStatus(ctx context.Context, id uint, status string, updatedBy *uint) error {
	sale, ok := m.sales[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	sale.Status = status
	sale.UpdatedBy = updatedBy
	return nil
}

func (m *mockSaleRepo) List(ctx context.Context, filter repository.SaleFilter, page, limit int) ([]model.Sale, int64, error) {
	var out []model.Sale
	for _, s := range m.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *mockSaleRepo) NextInvoiceNo(ctx context.Context, prefix string) (string, error) {
	m.nextSeq++
	return fmt.Sprintf("%s%05d", prefix, m.nextSeq), nil
}

// --- audit ---

type mockAuditRepo struct {
	entries []model.AuditLog
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	if action == "" {
		return m.entries, int64(len(m.entries)), nil
	}
	var out []model.AuditLog
	for _, e := range m.entries {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockAuditRepo) actions() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.Action)
	}
	return out
}

// --- expenses ---

type mockExpenseRepo struct {
	expenses map[uint]*model.Expense
	nextID   uint
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{expenses: make(map[uint]*model.Expense), nextID: 1}
}

func (m *mockExpenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	expense.ID = m.nextID
	expense.CreatedAt = time.Now()
	m.nextID++
	clone := *expense
	m.expenses[expense.ID] = &clone
	return nil
}

func (m *mockExpenseRepo) Update(ctx context.Context, expense *model.Expense) error {
	if _, ok := m.expenses[expense.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *expense
	m.expenses[expense.ID] = &clone
	return nil
}

func (m *mockExpenseRepo) FindByID(ctx context.Context, id uint) (*model.Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, filter repository.ExpenseFilter, page, limit int) ([]model.Expense, int64, error) {
	var out []model.Expense
	for _, e := range m.expenses {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// --- departments ---

type mockDepartmentRepo struct {
	departments map[uint]*model.Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{departments: make(map[uint]*model.Department)}
}

func (m *mockDepartmentRepo) add(d model.Department) { m.departments[d.ID] = &d }

func (m *mockDepartmentRepo) Create(ctx context.Context, department *model.Department) error {
	department.ID = uint(len(m.departments) + 1)
	m.departments[department.ID] = department
	return nil
}

func (m *mockDepartmentRepo) Update(ctx context.Context, department *model.Department) error {
	return nil
}
func (m *mockDepartmentRepo) Delete(ctx context.Context, id uint) error { return nil }

func (m *mockDepartmentRepo) FindByID(ctx context.Context, id uint) (*model.Department, error) {
	d, ok := m.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (m *mockDepartmentRepo) List(ctx context.Context, storeID uint, page, limit int) ([]model.Department, int64, error) {
	return nil, 0, nil
}

// --- suppliers ---

type mockSupplierRepo struct {
	suppliers map[uint]*model.Supplier
}

func newMockSupplierRepo() *mockSupplierRepo {
	return &mockSupplierRepo{suppliers: make(map[uint]*model.Supplier)}
}

func (m *mockSupplierRepo) add(s model.Supplier) { m.suppliers[s.ID] = &s }

func (m *mockSupplierRepo) Create(ctx context.Context, supplier *model.Supplier) error {
	supplier.ID = uint(len(m.suppliers) + 1)
	m.suppliers[supplier.ID] = supplier
	return nil
}

func (m *mockSupplierRepo) Update(ctx context.Context, supplier *model.Supplier) error { return nil }
func (m *mockSupplierRepo) Delete(ctx context.Context, id uint) error                  { return nil }

func (m *mockSupplierRepo) FindByID(ctx context.Context, id uint) (*model.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (m *mockSupplierRepo) FindByTaxNumber(ctx context.Context, taxNumber string) (*model.Supplier, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSupplierRepo) List(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error) {
	return nil, 0, nil
}

// --- supplier transactions ---

type mockSupplierTxRepo struct {
	txs     map[uint]*model.SupplierTransaction
	items   []model.SupplierTransactionItem
	nextID  uint
	nextSeq int
}

func newMockSupplierTxRepo() *mockSupplierTxRepo {
	return &mockSupplierTxRepo{txs: make(map[uint]*model.SupplierTransaction), nextID: 1}
}

func (m *mockSupplierTxRepo) Create(ctx context.Context, tx *model.SupplierTransaction) error {
	tx.ID = m.nextID
	tx.CreatedAt = time.Now()
	m.nextID++
	clone := *tx
	m.txs[tx.ID] = &clone
	return nil
}

func (m *mockSupplierTxRepo) CreateItem(ctx context.Context, item *model.SupplierTransactionItem) error {
	item.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *item)
	tx := m.txs[item.TransactionID]
	tx.Items = append(tx.Items, *item)
	return nil
}

func (m *mockSupplierTxRepo) FindByIDWithItems(ctx context.Context, id uint) (*model.SupplierTransaction, error) {
	tx, ok := m.txs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tx
	return &clone, nil
}

func (m *mockSupplierTxRepo) List(ctx context.Context, supplierID uint, txType string, page, limit int) ([]model.SupplierTransaction, int64, error) {
	var out []model.SupplierTransaction
	for _, tx := range m.txs {
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (m *mockSupplierTxRepo) NextReferenceNo(ctx context.Context, prefix string) (string, error) {
	m.nextSeq++
	return fmt.Sprintf("%s%05d", prefix, m.nextSeq), nil
}

// --- events ---

type recordingBroadcaster struct {
	events []string
}

func (r *recordingBroadcaster) BroadcastEvent(event string, data map[string]interface{}) {
	r.events = append(r.events, event)
}

func (r *recordingBroadcaster) has(event string) bool {
	return strings.Contains(strings.Join(r.events, ","), event)
}
