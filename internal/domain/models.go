package domain

import (
	"database/sql"
	"time"
)

// Employee is a row of tb_karyawan. TelegramID is zero until the
// employee binds their Telegram account.
type Employee struct {
	ID         int64          `db:"id"`
	NIK        string         `db:"nik"`
	Name       string         `db:"nama"`
	TelegramID sql.NullInt64  `db:"id_tele"`
	Active     string         `db:"aktif"`
}

// Supplier is a row of tb_suplier.
type Supplier struct {
	ID         int64  `db:"id"`
	Name       string `db:"namasuplier"`
	Address    string `db:"alamat"`
	Phone      string `db:"notlp"`
	Email      string `db:"email"`
	Contact    string `db:"person"`
	EmployeeID int64  `db:"id_karyawan"`
	Active     string `db:"aktif"`
}

// SupplierMappingSummary aggregates mapping counts per supplier for the
// mapping management menu.
type SupplierMappingSummary struct {
	SupplierID   int64  `db:"id_supplier"`
	SupplierName string `db:"nama_supplier"`
	Total        int    `db:"total_mapping"`
	Active       int    `db:"aktif_mapping"`
}

// CatalogRow is the join of an active supplier mapping with its product
// defaults. Override columns are nullable; resolution rules live in the
// catalog package.
type CatalogRow struct {
	ProductID     int64           `db:"id_produk"`
	ProductName   string          `db:"nama_produk"`
	Description   sql.NullString  `db:"deskripsi"`
	Stock         sql.NullInt64   `db:"stok"`
	OverridePrice sql.NullFloat64 `db:"harga_beli"`
	OverrideUnit  sql.NullInt64   `db:"satuan_beli"`
	OverrideQty   sql.NullInt64   `db:"isi_beli"`
	BigUnitID     sql.NullInt64   `db:"satuanbesar"`
	SmallUnitID   sql.NullInt64   `db:"satuankecil"`
	DefaultQty    sql.NullInt64   `db:"isi"`
	SellPrice     sql.NullFloat64 `db:"harga_jual"`
}

// StockRow is one line of the per-supplier stock listing.
type StockRow struct {
	ProductID    int64           `db:"id_produk"`
	ProductName  string          `db:"nama_produk"`
	Description  sql.NullString  `db:"deskripsi"`
	Stock        int             `db:"stok"`
	SellPrice    float64         `db:"harga"`
	BigUnitID    sql.NullInt64   `db:"satuanbesar"`
	SmallUnitID  sql.NullInt64   `db:"satuankecil"`
	Qty          sql.NullInt64   `db:"isi"`
	MinStock     int             `db:"min"`
	MaxStock     int             `db:"max"`
	SupplierCost sql.NullFloat64 `db:"harga_supplier"`
}

// MappingRow is one line of the per-supplier mapping listing.
type MappingRow struct {
	MappingID   int64           `db:"mapping_id"`
	ProductID   int64           `db:"id_produk"`
	ProductName string          `db:"nama_produk"`
	Description sql.NullString  `db:"deskripsi"`
	BuyPrice    sql.NullFloat64 `db:"harga_beli"`
	UnitName    sql.NullString  `db:"nama_satuan"`
	Qty         sql.NullInt64   `db:"isi"`
	Active      string          `db:"status_mapping"`
	Stock       int             `db:"stok"`
	SellPrice   float64         `db:"harga_jual"`
}

// Receipt is a row of tb_riceve.
type Receipt struct {
	ID         int64     `db:"id"`
	Number     string    `db:"norcv"`
	Invoice    string    `db:"nofaktur"`
	Note       string    `db:"keterangan"`
	SupplierID int64     `db:"idsuplier"`
	Date       time.Time `db:"tgl"`
	Time       string    `db:"jam"`
	ItemCount  int       `db:"totalitem"`
	Total      float64   `db:"totalharga"`
	Discount   float64   `db:"diskon"`
	FinalTotal float64   `db:"totalfinal"`
	User       string    `db:"user"`
	Active     string    `db:"aktif"`
}

// ReceiptDetail is a row of tb_ricevedetil.
type ReceiptDetail struct {
	ReceiptID   int64     `db:"idrcv"`
	ProductID   int64     `db:"iditem"`
	BigUnitID   int64     `db:"satuanbesar"`
	Qty         int       `db:"qty1"`
	SmallUnitID int64     `db:"satuankecil"`
	Factor      int       `db:"isi"`
	SmallQty    int       `db:"qty2"`
	BuyPrice    float64   `db:"hargabeli"`
	Subtotal    float64   `db:"subtotal"`
	CostPrice   float64   `db:"hargapokok"`
	Posted      string    `db:"posting"`
	User        string    `db:"user"`
	Date        time.Time `db:"tgl"`
}

// DepositEntry is a row of tb_deposit_detil.
type DepositEntry struct {
	ID       int64   `db:"id"`
	NIK      string  `db:"nik"`
	Kind     string  `db:"jenis"`
	Deposit  float64 `db:"setor"`
	Withdraw float64 `db:"tarik"`
	Note     string  `db:"keterangan"`
}

// Unit is a row of tb_satuan.
type Unit struct {
	ID     int64  `db:"id"`
	Name   string `db:"satuan"`
	Active string `db:"aktif"`
}
