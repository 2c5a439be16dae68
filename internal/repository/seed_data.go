package repository

import (
	"time"

	"github.com/noah-isme/lejian-admin-api/internal/models"
)

// AppealSeed returns the demo appeals loaded into a fresh store, in display order.
func AppealSeed() []models.Appeal {
	return []models.Appeal{
		{
			ID:          "1",
			Type:        "里程数据错误",
			StudentName: "张三",
			StudentID:   "2023001",
			Description: "我明明跑了3公里，系统只显示1.5公里，请核实。",
			Status:      models.AppealStatusUnfiled,
			Date:        models.NewDate(2023, time.December, 18),
		},
		{
			ID:          "2",
			Type:        "GPS轨迹漂移",
			StudentName: "李四",
			StudentID:   "2023002",
			Description: "轨迹直接飞到湖里去了，导致成绩无效。",
			Status:      models.AppealStatusUnfiled,
			Date:        models.NewDate(2023, time.December, 17),
		},
		{
			ID:          "3",
			Type:        "打卡过点问题",
			StudentName: "王五",
			StudentID:   "2023003",
			Description: "到了打卡点手机没反应，无法打卡。",
			Status:      models.AppealStatusAccepted,
			Date:        models.NewDate(2023, time.December, 16),
		},
		{
			ID:          "4",
			Type:        "被判无效数据",
			StudentName: "赵六",
			StudentID:   "2023004",
			Description: "配速正常，但是被判定为骑车。",
			Status:      models.AppealStatusResolved,
			Date:        models.NewDate(2023, time.December, 15),
		},
	}
}

// rosterName pairs a display name with its romanization for Latin-only exports.
type rosterName struct {
	name  string
	latin string
}

var studentNames = []rosterName{
	{"张三", "Zhang San"}, {"李四", "Li Si"}, {"王五", "Wang Wu"}, {"赵六", "Zhao Liu"},
	{"钱七", "Qian Qi"}, {"孙八", "Sun Ba"}, {"周九", "Zhou Jiu"}, {"吴十", "Wu Shi"},
	{"郑十一", "Zheng Shiyi"}, {"王十二", "Wang Shier"}, {"冯十三", "Feng Shisan"}, {"陈十四", "Chen Shisi"},
	{"褚十五", "Chu Shiwu"}, {"卫十六", "Wei Shiliu"}, {"蒋十七", "Jiang Shiqi"}, {"沈十八", "Shen Shiba"},
	{"韩十九", "Han Shijiu"}, {"杨二十", "Yang Ershi"}, {"朱二一", "Zhu Eryi"}, {"秦二二", "Qin Erer"},
}

// weeklyAttendance is the class-wide check-in rate for each of the 16 course weeks.
var weeklyAttendance = []int{95, 88, 92, 85, 90, 75, 82, 88, 95, 90, 85, 80, 88, 92, 96, 90}
