package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

type seedDepartment struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	ColorTheme  string `db:"color_theme"`
}

type seedJob struct {
	Title          string `db:"title"`
	Department     string `db:"-"`
	DepartmentID   string `db:"department_id"`
	Description    string `db:"description"`
	Requirements   string `db:"requirements"`
	Location       string `db:"location"`
	EmploymentType string `db:"employment_type"`
	SalaryMin      int64  `db:"salary_min"`
	SalaryMax      int64  `db:"salary_max"`
	Status         string `db:"status"`
}

var seedDepartments = []seedDepartment{
	{Name: "技术部", Description: "负责产品研发与基础设施", ColorTheme: "blue"},
	{Name: "产品部", Description: "负责产品规划与设计", ColorTheme: "green"},
	{Name: "人力资源部", Description: "负责招聘与员工关系", ColorTheme: "orange"},
}

var seedJobs = []seedJob{
	{
		Title:          "后端工程师",
		Department:     "技术部",
		Description:    "负责招聘平台 API 网关与数据服务开发",
		Requirements:   "三年以上 Go 开发经验，熟悉 PostgreSQL",
		Location:       "上海",
		EmploymentType: "full-time",
		SalaryMin:      25000,
		SalaryMax:      40000,
		Status:         "active",
	},
	{
		Title:          "前端工程师",
		Department:     "技术部",
		Description:    "负责候选人端与 HR 工作台开发",
		Requirements:   "熟悉 React 与 TypeScript",
		Location:       "上海",
		EmploymentType: "full-time",
		SalaryMin:      20000,
		SalaryMax:      35000,
		Status:         "active",
	},
	{
		Title:          "产品经理",
		Department:     "产品部",
		Description:    "负责招聘流程产品设计",
		Requirements:   "两年以上 B 端产品经验",
		Location:       "北京",
		EmploymentType: "full-time",
		SalaryMin:      22000,
		SalaryMax:      38000,
		Status:         "active",
	},
	{
		Title:          "招聘专员（实习）",
		Department:     "人力资源部",
		Description:    "协助筛选简历与安排面试",
		Location:       "远程",
		EmploymentType: "internship",
		SalaryMin:      4000,
		SalaryMax:      6000,
		Status:         "draft",
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed departments and jobs for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		if !cfg.Database.Enabled() {
			log.Fatal("seed: database.source (DATABASE_URL) is not set")
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if err := seed(cmd.Context(), db, clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

func seed(ctx context.Context, db *sqlx.DB, clear bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if clear {
		for _, j := range seedJobs {
			if _, err := tx.ExecContext(ctx, "DELETE FROM jobs WHERE title = $1", j.Title); err != nil {
				return fmt.Errorf("clear job %s: %w", j.Title, err)
			}
		}
		fmt.Println("Cleared seeded jobs")
	}

	departmentIDs := make(map[string]string, len(seedDepartments))
	for _, d := range seedDepartments {
		var id string
		err := tx.GetContext(ctx, &id, "SELECT id::text FROM departments WHERE name = $1", d.Name)
		if errors.Is(err, sql.ErrNoRows) {
			rows, err := tx.NamedQuery(
				`INSERT INTO departments (name, description, color_theme, created_at)
				 VALUES (:name, :description, :color_theme, now()) RETURNING CAST(id AS text)`, d)
			if err != nil {
				return fmt.Errorf("insert department %s: %w", d.Name, err)
			}
			if rows.Next() {
				err = rows.Scan(&id)
			}
			rows.Close()
			if err != nil {
				return fmt.Errorf("read department id %s: %w", d.Name, err)
			}
			fmt.Println("Seeded department:", d.Name)
		} else if err != nil {
			return fmt.Errorf("lookup department %s: %w", d.Name, err)
		}
		departmentIDs[d.Name] = id
	}

	for _, j := range seedJobs {
		var exists int
		err := tx.GetContext(ctx, &exists, "SELECT 1 FROM jobs WHERE title = $1", j.Title)
		if err == nil {
			fmt.Println("job already exists:", j.Title)
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup job %s: %w", j.Title, err)
		}

		j.DepartmentID = departmentIDs[j.Department]
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO jobs (title, department_id, description, requirements, location, employment_type,
			                   salary_min, salary_max, status, created_at, updated_at)
			 VALUES (:title, CAST(NULLIF(:department_id, '') AS uuid), :description, :requirements, :location, :employment_type,
			         :salary_min, :salary_max, :status, now(), now())`, j); err != nil {
			return fmt.Errorf("insert job %s: %w", j.Title, err)
		}
		fmt.Println("Seeded job:", j.Title)
	}

	return tx.Commit()
}
