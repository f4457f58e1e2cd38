package repo

import (
	"database/sql"

	_ "github.com/lib/pq"

	"printpost-backend/internal/domain"
)

// PostgresOrderRepo is the durable processed-session store. The primary key
// on session_id is what makes webhook redelivery a no-op; retention must
// cover the payment service's redelivery window.
type PostgresOrderRepo struct {
	db *sql.DB
}

func NewPostgresOrderRepo(dsn string) (*PostgresOrderRepo, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	r := &PostgresOrderRepo{db: db}
	if err := r.init(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresOrderRepo) init() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS processed_orders (
		session_id TEXT PRIMARY KEY,
		payment_status TEXT,
		amount_total_cents BIGINT,
		file_url TEXT,
		print_type TEXT,
		mail_type TEXT,
		paper_size TEXT,
		page_count INT,
		sender_name TEXT,
		sender_address TEXT,
		sender_email TEXT,
		recipient_name TEXT,
		recipient_address TEXT,
		order_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ
	);`)
	return err
}

func (r *PostgresOrderRepo) MarkProcessed(rec *domain.OrderRecord) (bool, error) {
	res, err := r.db.Exec(`INSERT INTO processed_orders
		(session_id,payment_status,amount_total_cents,file_url,print_type,mail_type,paper_size,page_count,
		 sender_name,sender_address,sender_email,recipient_name,recipient_address,order_date,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (session_id) DO NOTHING`,
		rec.SessionID, rec.PaymentStatus, rec.AmountTotalCents, rec.FileURL,
		string(rec.PrintType), string(rec.MailType), string(rec.PaperSize), rec.PageCount,
		rec.SenderName, rec.SenderAddress, rec.SenderEmail,
		rec.RecipientName, rec.RecipientAddress, rec.OrderDate, rec.CreatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresOrderRepo) Get(sessionID string) (*domain.OrderRecord, bool) {
	var rec domain.OrderRecord
	err := r.db.QueryRow(`SELECT session_id,payment_status,amount_total_cents,file_url,print_type,mail_type,paper_size,page_count,
		sender_name,sender_address,sender_email,recipient_name,recipient_address,order_date,created_at
		FROM processed_orders WHERE session_id=$1`, sessionID).
		Scan(&rec.SessionID, &rec.PaymentStatus, &rec.AmountTotalCents, &rec.FileURL,
			(*string)(&rec.PrintType), (*string)(&rec.MailType), (*string)(&rec.PaperSize), &rec.PageCount,
			&rec.SenderName, &rec.SenderAddress, &rec.SenderEmail,
			&rec.RecipientName, &rec.RecipientAddress, &rec.OrderDate, &rec.CreatedAt)
	if err != nil {
		return nil, false
	}
	return &rec, true
}

func (r *PostgresOrderRepo) List(page, pageSize int) ([]domain.OrderRecord, int) {
	rows, err := r.db.Query(`SELECT session_id,payment_status,amount_total_cents,file_url,print_type,mail_type,paper_size,page_count,
		sender_name,sender_address,sender_email,recipient_name,recipient_address,order_date,created_at
		FROM processed_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0
	}
	defer rows.Close()
	out := make([]domain.OrderRecord, 0, pageSize)
	for rows.Next() {
		var rec domain.OrderRecord
		if err := rows.Scan(&rec.SessionID, &rec.PaymentStatus, &rec.AmountTotalCents, &rec.FileURL,
			(*string)(&rec.PrintType), (*string)(&rec.MailType), (*string)(&rec.PaperSize), &rec.PageCount,
			&rec.SenderName, &rec.SenderAddress, &rec.SenderEmail,
			&rec.RecipientName, &rec.RecipientAddress, &rec.OrderDate, &rec.CreatedAt); err != nil {
			continue
		}
		out = append(out, rec)
	}
	var total int
	_ = r.db.QueryRow(`SELECT COUNT(1) FROM processed_orders`).Scan(&total)
	return out, total
}
