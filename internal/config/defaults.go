package config

import "github.com/spf13/viper"

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-payroll")
	v.SetDefault("app.env", "development")

	v.SetDefault("http.port", "3000")
	v.SetDefault("http.read_timeout", "5s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.import_rate_limit", 2)
	v.SetDefault("http.import_burst", 5)
	v.SetDefault("http.max_upload_bytes", 16<<20)
	v.SetDefault("http.idempotency_ttl", "24h")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "payroll")
	v.SetDefault("database.name", "payroll")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_retries", 5)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.group_id", "go-payroll")
	v.SetDefault("kafka.poll_interval", "3s")

	v.SetDefault("jwt.issuer", "go-payroll")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("attendance.shift_start", "08:00")
	v.SetDefault("attendance.shift_end", "17:00")
	v.SetDefault("attendance.lunch_threshold_hours", "4")
	v.SetDefault("attendance.lunch_break_hours", "1")

	v.SetDefault("import.preview_ttl", "30m")
	v.SetDefault("import.max_rows", 200000)
	v.SetDefault("import.banner_markers", []string{
		"Attendance Record Report",
		"Attendance Report",
		"Tabling date:",
	})

	v.SetDefault("payroll.hours_per_day", 8)
	v.SetDefault("payroll.days_per_month", 22)
	v.SetDefault("payroll.overtime_multiplier", "1.25")
	v.SetDefault("payroll.holiday_multiplier", "2.0")
	v.SetDefault("payroll.night_multiplier", "0.10")
	v.SetDefault("payroll.summary_cache_ttl", "10m")

	v.SetDefault("statutory.social.strategy", "tiered")
	v.SetDefault("statutory.social.tiers", []string{
		"1000:50", "2000:100", "3000:150", "4000:200", "5000:250",
		"6000:300", "7000:350", "8000:400", "9000:450", "10000:500",
	})
	v.SetDefault("statutory.social.tier_max", "500")
	v.SetDefault("statutory.social.rate", "0.045")
	v.SetDefault("statutory.social.floor", "4000")
	v.SetDefault("statutory.social.ceiling", "30000")

	v.SetDefault("statutory.health.rate", "0.05")
	v.SetDefault("statutory.health.employee_share", "0.5")
	v.SetDefault("statutory.health.floor", "10000")
	v.SetDefault("statutory.health.ceiling", "100000")

	v.SetDefault("statutory.housing.threshold", "1500")
	v.SetDefault("statutory.housing.rate_low", "0.01")
	v.SetDefault("statutory.housing.rate_high", "0.02")
	v.SetDefault("statutory.housing.cap", "5000")
}
