// Package storage is the Postgres persistence layer. Every query the bot
// runs lives here; services above it only see domain structs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/ksabot/internal/domain"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("storage: not found")

// Store runs all queries against the shared connection pool.
type Store struct {
	db *sqlx.DB
}

// New wraps an open pool.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SeedUnits inserts the base measurement unit on a fresh database so the
// fallback unit id always resolves.
func (s *Store) SeedUnits(ctx context.Context) error {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tb_satuan`); err != nil {
		return fmt.Errorf("count units: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO tb_satuan (satuan, aktif) VALUES ('PCS', 'Y')`); err != nil {
		return fmt.Errorf("seed units: %w", err)
	}
	return nil
}

// EmployeeByTelegramID finds the active employee bound to a Telegram
// account.
func (s *Store) EmployeeByTelegramID(ctx context.Context, telegramID int64) (domain.Employee, error) {
	const q = `
		SELECT id, nik, nama, id_tele, aktif
		FROM tb_karyawan
		WHERE id_tele = $1 AND aktif = 'Y'`
	var e domain.Employee
	if err := s.db.GetContext(ctx, &e, q, telegramID); err != nil {
		return domain.Employee{}, wrapGet("employee by telegram id", err)
	}
	return e, nil
}

// EmployeeByNIK finds an active employee by their registration number.
func (s *Store) EmployeeByNIK(ctx context.Context, nik string) (domain.Employee, error) {
	const q = `
		SELECT id, nik, nama, id_tele, aktif
		FROM tb_karyawan
		WHERE nik = $1 AND aktif = 'Y'`
	var e domain.Employee
	if err := s.db.GetContext(ctx, &e, q, nik); err != nil {
		return domain.Employee{}, wrapGet("employee by nik", err)
	}
	return e, nil
}

// BindTelegramID links a Telegram account to the employee record.
func (s *Store) BindTelegramID(ctx context.Context, nik string, telegramID int64) error {
	const q = `
		UPDATE tb_karyawan
		SET id_tele = $2
		WHERE nik = $1 AND aktif = 'Y'`
	res, err := s.db.ExecContext(ctx, q, nik, telegramID)
	if err != nil {
		return fmt.Errorf("bind telegram id: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Balance returns the employee's deposit balance: total deposits minus
// total withdrawals.
func (s *Store) Balance(ctx context.Context, nik string) (float64, error) {
	const q = `
		SELECT COALESCE(SUM(setor) - SUM(tarik), 0)
		FROM tb_deposit_detil
		WHERE nik = $1`
	var saldo float64
	if err := s.db.GetContext(ctx, &saldo, q, nik); err != nil {
		return 0, fmt.Errorf("deposit balance: %w", err)
	}
	return saldo, nil
}

// LastDeposit returns the employee's most recent deposit entry.
func (s *Store) LastDeposit(ctx context.Context, nik string) (domain.DepositEntry, error) {
	const q = `
		SELECT id, nik, jenis, setor, tarik, keterangan
		FROM tb_deposit_detil
		WHERE jenis = 'setor' AND nik = $1
		ORDER BY id DESC
		LIMIT 1`
	var d domain.DepositEntry
	if err := s.db.GetContext(ctx, &d, q, nik); err != nil {
		return domain.DepositEntry{}, wrapGet("last deposit", err)
	}
	return d, nil
}

// SuppliersByTelegramID lists the active suppliers assigned to the
// employee bound to the Telegram account, ordered by name.
func (s *Store) SuppliersByTelegramID(ctx context.Context, telegramID int64) ([]domain.Supplier, error) {
	const q = `
		SELECT s.id, s.namasuplier, s.alamat, s.notlp, s.email, s.person, s.id_karyawan, s.aktif
		FROM tb_suplier s
		JOIN tb_karyawan k ON s.id_karyawan = k.id
		WHERE k.id_tele = $1 AND s.aktif = 'Y' AND k.aktif = 'Y'
		ORDER BY s.namasuplier`
	var out []domain.Supplier
	if err := s.db.SelectContext(ctx, &out, q, telegramID); err != nil {
		return nil, fmt.Errorf("suppliers by telegram id: %w", err)
	}
	return out, nil
}

// SupplierByID returns one supplier.
func (s *Store) SupplierByID(ctx context.Context, id int64) (domain.Supplier, error) {
	const q = `
		SELECT id, namasuplier, alamat, notlp, email, person, id_karyawan, aktif
		FROM tb_suplier
		WHERE id = $1`
	var sup domain.Supplier
	if err := s.db.GetContext(ctx, &sup, q, id); err != nil {
		return domain.Supplier{}, wrapGet("supplier by id", err)
	}
	return sup, nil
}

// MappingSummaries aggregates mapping counts per supplier for the
// employee bound to the Telegram account.
func (s *Store) MappingSummaries(ctx context.Context, telegramID int64) ([]domain.SupplierMappingSummary, error) {
	const q = `
		SELECT
			s.id AS id_supplier,
			s.namasuplier AS nama_supplier,
			COUNT(si.id) AS total_mapping,
			COALESCE(SUM(CASE WHEN si.aktif = 'Y' THEN 1 ELSE 0 END), 0) AS aktif_mapping
		FROM tb_suplier s
		JOIN tb_karyawan k ON s.id_karyawan = k.id
		LEFT JOIN tb_suplieritem si ON s.id = si.idsuplier
		WHERE k.id_tele = $1 AND s.aktif = 'Y' AND k.aktif = 'Y'
		GROUP BY s.id, s.namasuplier
		ORDER BY s.namasuplier`
	var out []domain.SupplierMappingSummary
	if err := s.db.SelectContext(ctx, &out, q, telegramID); err != nil {
		return nil, fmt.Errorf("mapping summaries: %w", err)
	}
	return out, nil
}

// CatalogRows returns the active product mappings of a supplier joined
// with product defaults, ordered by product name.
func (s *Store) CatalogRows(ctx context.Context, supplierID int64) ([]domain.CatalogRow, error) {
	const q = `
		SELECT
			p.id_produk,
			p.nama_produk,
			p.deskripsi,
			p.stok,
			si.harga AS harga_beli,
			si.satuan AS satuan_beli,
			si.isi AS isi_beli,
			p.satuanbesar,
			p.satuankecil,
			p.isi,
			p.harga AS harga_jual
		FROM tbl_produk p
		INNER JOIN tb_suplieritem si ON p.id_produk = si.iditem
		WHERE si.idsuplier = $1 AND si.aktif = 'Y' AND p.aktif = 'Y'
		ORDER BY p.nama_produk`
	var out []domain.CatalogRow
	if err := s.db.SelectContext(ctx, &out, q, supplierID); err != nil {
		return nil, fmt.Errorf("catalog rows: %w", err)
	}
	return out, nil
}

// UnitName resolves a unit id to its name.
func (s *Store) UnitName(ctx context.Context, unitID int64) (string, error) {
	const q = `SELECT satuan FROM tb_satuan WHERE id = $1 AND aktif = 'Y'`
	var name string
	if err := s.db.GetContext(ctx, &name, q, unitID); err != nil {
		return "", wrapGet("unit name", err)
	}
	return name, nil
}

// UnitIDByName resolves an active unit name to its id.
func (s *Store) UnitIDByName(ctx context.Context, name string) (int64, error) {
	const q = `SELECT id FROM tb_satuan WHERE satuan = $1 AND aktif = 'Y' LIMIT 1`
	var id int64
	if err := s.db.GetContext(ctx, &id, q, name); err != nil {
		return 0, wrapGet("unit id by name", err)
	}
	return id, nil
}

// CountReceipts counts the active receipts of a supplier.
func (s *Store) CountReceipts(ctx context.Context, supplierID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM tb_riceve WHERE idsuplier = $1 AND aktif = 'Y'`
	var n int
	if err := s.db.GetContext(ctx, &n, q, supplierID); err != nil {
		return 0, fmt.Errorf("count receipts: %w", err)
	}
	return n, nil
}

// ReceiptsPage returns one page of a supplier's receipts, newest first.
func (s *Store) ReceiptsPage(ctx context.Context, supplierID int64, limit, offset int) ([]domain.Receipt, error) {
	const q = `
		SELECT id, norcv, nofaktur, keterangan, idsuplier, tgl, jam,
		       totalitem, totalharga, diskon, totalfinal, "user", aktif
		FROM tb_riceve
		WHERE idsuplier = $1 AND aktif = 'Y'
		ORDER BY tgl DESC, id DESC
		LIMIT $2 OFFSET $3`
	var out []domain.Receipt
	if err := s.db.SelectContext(ctx, &out, q, supplierID, limit, offset); err != nil {
		return nil, fmt.Errorf("receipts page: %w", err)
	}
	return out, nil
}

// CountStock counts the active mapped products of a supplier.
func (s *Store) CountStock(ctx context.Context, supplierID int64) (int, error) {
	const q = `
		SELECT COUNT(*)
		FROM tbl_produk p
		INNER JOIN tb_suplieritem si ON p.id_produk = si.iditem
		WHERE si.idsuplier = $1 AND si.aktif = 'Y' AND p.aktif = 'Y'`
	var n int
	if err := s.db.GetContext(ctx, &n, q, supplierID); err != nil {
		return 0, fmt.Errorf("count stock: %w", err)
	}
	return n, nil
}

// StockPage returns one page of a supplier's product stock, ordered by
// product name.
func (s *Store) StockPage(ctx context.Context, supplierID int64, limit, offset int) ([]domain.StockRow, error) {
	const q = `
		SELECT
			p.id_produk,
			p.nama_produk,
			p.deskripsi,
			COALESCE(p.stok, 0) AS stok,
			COALESCE(p.harga, 0) AS harga,
			p.satuanbesar,
			p.satuankecil,
			p.isi,
			COALESCE(p.min, 0) AS min,
			COALESCE(p.max, 0) AS max,
			si.harga AS harga_supplier
		FROM tbl_produk p
		INNER JOIN tb_suplieritem si ON p.id_produk = si.iditem
		WHERE si.idsuplier = $1 AND si.aktif = 'Y' AND p.aktif = 'Y'
		ORDER BY p.nama_produk
		LIMIT $2 OFFSET $3`
	var out []domain.StockRow
	if err := s.db.SelectContext(ctx, &out, q, supplierID, limit, offset); err != nil {
		return nil, fmt.Errorf("stock page: %w", err)
	}
	return out, nil
}

// CountMappings counts a supplier's product mappings; statusFilter "Y"
// or "N" narrows to that status, "" counts all.
func (s *Store) CountMappings(ctx context.Context, supplierID int64, statusFilter string) (int, error) {
	q := `
		SELECT COUNT(*)
		FROM tb_suplieritem si
		JOIN tbl_produk p ON si.iditem = p.id_produk
		WHERE si.idsuplier = $1 AND p.aktif = 'Y'`
	args := []any{supplierID}
	if statusFilter != "" {
		q += ` AND si.aktif = $2`
		args = append(args, statusFilter)
	}
	var n int
	if err := s.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, fmt.Errorf("count mappings: %w", err)
	}
	return n, nil
}

// MappingsPage returns one page of a supplier's product mappings,
// optionally filtered by status, ordered by product name.
func (s *Store) MappingsPage(ctx context.Context, supplierID int64, statusFilter string, limit, offset int) ([]domain.MappingRow, error) {
	q := `
		SELECT
			si.id AS mapping_id,
			p.id_produk,
			p.nama_produk,
			p.deskripsi,
			si.harga AS harga_beli,
			sa.satuan AS nama_satuan,
			si.isi,
			si.aktif AS status_mapping,
			COALESCE(p.stok, 0) AS stok,
			COALESCE(p.harga, 0) AS harga_jual
		FROM tb_suplieritem si
		JOIN tbl_produk p ON si.iditem = p.id_produk
		LEFT JOIN tb_satuan sa ON si.satuan = sa.id
		WHERE si.idsuplier = $1 AND p.aktif = 'Y'`
	args := []any{supplierID}
	if statusFilter != "" {
		q += ` AND si.aktif = $2
		ORDER BY p.nama_produk
		LIMIT $3 OFFSET $4`
		args = append(args, statusFilter, limit, offset)
	} else {
		q += `
		ORDER BY p.nama_produk
		LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}
	var out []domain.MappingRow
	if err := s.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("mappings page: %w", err)
	}
	return out, nil
}

// ToggleMapping flips a mapping between active and inactive and returns
// the new status.
func (s *Store) ToggleMapping(ctx context.Context, mappingID int64) (string, error) {
	const q = `
		UPDATE tb_suplieritem
		SET aktif = CASE WHEN aktif = 'Y' THEN 'N' ELSE 'Y' END
		WHERE id = $1
		RETURNING aktif`
	var status string
	if err := s.db.GetContext(ctx, &status, q, mappingID); err != nil {
		return "", wrapGet("toggle mapping", err)
	}
	return status, nil
}

// MaxTrackingSequence returns the highest numeric suffix among receipt
// numbers starting with prefix, or 0 when the day has none. The suffix
// is the 3 digits after the 9-character prefix + date.
func (s *Store) MaxTrackingSequence(ctx context.Context, prefix string) (int, error) {
	const q = `
		SELECT COALESCE(MAX(CAST(SUBSTRING(norcv FROM 10) AS INTEGER)), 0)
		FROM tb_riceve
		WHERE norcv LIKE $1`
	var n int
	if err := s.db.GetContext(ctx, &n, q, prefix+"%"); err != nil {
		return 0, fmt.Errorf("max tracking sequence: %w", err)
	}
	return n, nil
}

// TrackingNumberExists reports whether the exact receipt number is
// already taken.
func (s *Store) TrackingNumberExists(ctx context.Context, number string) (bool, error) {
	const q = `SELECT COUNT(*) FROM tb_riceve WHERE norcv = $1`
	var n int
	if err := s.db.GetContext(ctx, &n, q, number); err != nil {
		return false, fmt.Errorf("tracking number exists: %w", err)
	}
	return n > 0, nil
}

// LastInvoiceNumber returns the most recent invoice of the supplier in
// the given month matching the code prefix, or "" when none exists.
func (s *Store) LastInvoiceNumber(ctx context.Context, supplierID int64, year int, month time.Month, prefix string) (string, error) {
	const q = `
		SELECT nofaktur
		FROM tb_riceve
		WHERE idsuplier = $1
		  AND EXTRACT(YEAR FROM tgl) = $2
		  AND EXTRACT(MONTH FROM tgl) = $3
		  AND nofaktur LIKE $4
		ORDER BY id DESC
		LIMIT 1`
	var invoice string
	err := s.db.GetContext(ctx, &invoice, q, supplierID, year, int(month), prefix+"%")
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return invoice, nil
}

// InsertReceipt writes the receipt header and all detail rows in a
// single transaction and returns the new header id.
func (s *Store) InsertReceipt(ctx context.Context, header domain.Receipt, details []domain.ReceiptDetail) (int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin receipt tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const headerQ = `
		INSERT INTO tb_riceve (
			norcv, nofaktur, keterangan, idsuplier, tgl, jam,
			totalitem, totalharga, diskon, totalfinal, "user", aktif
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	var receiptID int64
	err = tx.GetContext(ctx, &receiptID, headerQ,
		header.Number, header.Invoice, header.Note, header.SupplierID,
		header.Date, header.Time, header.ItemCount, header.Total,
		header.Discount, header.FinalTotal, header.User, header.Active,
	)
	if err != nil {
		return 0, fmt.Errorf("insert receipt header: %w", err)
	}

	const detailQ = `
		INSERT INTO tb_ricevedetil (
			idrcv, iditem, satuanbesar, qty1, satuankecil, isi, qty2,
			hargabeli, subtotal, hargapokok, posting, "user", tgl
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	for _, d := range details {
		_, err = tx.ExecContext(ctx, detailQ,
			receiptID, d.ProductID, d.BigUnitID, d.Qty, d.SmallUnitID,
			d.Factor, d.SmallQty, d.BuyPrice, d.Subtotal, d.CostPrice,
			d.Posted, d.User, d.Date,
		)
		if err != nil {
			return 0, fmt.Errorf("insert receipt detail: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit receipt tx: %w", err)
	}
	return receiptID, nil
}

func wrapGet(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
