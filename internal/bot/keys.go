package bot

// Callback uniques. Telebot encodes buttons as \f<unique>|<payload>;
// these keys also name the handlers in the registry.
const (
	cbRegConfirm = "reg_confirm"
	cbRegChange  = "reg_change"

	cbSupplierDetail = "sup_detail" // payload: supplierID
	cbSupplierBack   = "sup_back"

	cbReceiptHistory = "rcv_hist" // payload: supplierID|page
	cbReceiptNew     = "rcv_new"  // payload: supplierID
	cbReceiptMenu    = "rcv_menu"
	cbReceiptRefresh = "rcv_refresh"
	cbInvoiceAuto    = "rcv_inv_auto"
	cbInvoiceManual  = "rcv_inv_manual"
	cbProductPick    = "rcv_pick" // payload: 1-based global product index
	cbProductPage    = "rcv_page" // payload: page
	cbItemList       = "rcv_items"
	cbItemsBack      = "rcv_back"
	cbReceiptSave    = "rcv_save"
	cbReceiptCancel  = "rcv_cancel"
	cbZeroPriceOK    = "rcv_zero_ok"

	cbStockPage = "stock_page" // payload: supplierID|page
	cbStockBack = "stock_back"

	cbMappingSupplier = "map_sup"    // payload: supplierID|page|filter
	cbMappingToggle   = "map_toggle" // payload: mappingID|supplierID|page|filter
	cbMappingFilter   = "map_filter" // payload: supplierID|filter
	cbMappingBack     = "map_menu"

	cbNoop = "noop"
)

// Reply keyboard labels of the main menu.
const (
	labelRegister  = "Daftar Sekarang"
	labelBalance   = "Cek Saldo"
	labelSuppliers = "Supplier Saya"
	labelReceipts  = "Penerimaan Barang"
	labelStock     = "Stok Produk"
	labelMapping   = "Kelola Mapping"
	labelHelp      = "Bantuan"
)
