package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	asset TEXT NOT NULL,
	symbol TEXT NOT NULL,
	time DATETIME NOT NULL,
	size TEXT NOT NULL,
	price REAL NOT NULL,
	pnl REAL NOT NULL,
	currency TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	currency TEXT NOT NULL,
	cash REAL NOT NULL,
	positions REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
