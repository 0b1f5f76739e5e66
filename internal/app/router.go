package app

import (
	"mathpath_backend/docs"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/middleware"
	"mathpath_backend/internal/model"
	"mathpath_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}

	// 3. 管理员相关接口
	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.PUT("/user/password", c.user.ChangePassword)
	rg.POST("/user/avatar", c.user.UploadAvatar)

	// 学生档案与游戏化
	rg.GET("/students/me", c.student.Overview)
	rg.PUT("/students/me", c.student.UpdateProfile)
	rg.GET("/students/me/path", c.student.GetPath)
	rg.GET("/students/leaderboard", c.student.Leaderboard)

	// 课程目录
	rg.GET("/concepts", c.concept.ListByGrade)
	rg.GET("/concepts/:id", c.concept.Get)
	rg.GET("/concepts/:id/prerequisites", c.concept.ListPrerequisites)
	rg.GET("/concepts/:id/problems", c.concept.ListProblems)
	rg.GET("/concepts/:id/problems/pick", c.concept.PickProblem)

	// 答题与提示
	rg.POST("/attempts", c.attempt.Submit)
	rg.POST("/attempts/hint", c.attempt.Hint)
	rg.GET("/attempts/concept/:conceptId", c.attempt.History)

	// 进度与推荐
	rg.GET("/progress", c.progress.List)
	rg.GET("/progress/:conceptId", c.progress.Get)
	rg.POST("/progress/:conceptId/reset", c.progress.Reset)
	rg.GET("/recommendation", c.progress.Recommend)

	// 每日目标与学习会话
	rg.GET("/goals/today", c.goal.GetToday)
	rg.PUT("/goals/today", c.goal.UpdateTargets)
	rg.GET("/goals/weekly", c.goal.GetWeekly)
	rg.POST("/sessions/start", c.goal.StartSession)
	rg.POST("/sessions/:sessionId/end", c.goal.EndSession)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher, model.Admin))
	{
		// 概念维护
		teacher.POST("/concepts", c.concept.Create)
		teacher.PUT("/concepts/:id", c.concept.Update)
		teacher.POST("/concepts/:id/prerequisites", c.concept.AddPrerequisite)
		teacher.DELETE("/concepts/:id/prerequisites/:prereqId", c.concept.RemovePrerequisite)

		// 题库维护
		teacher.POST("/problems", c.concept.CreateProblem)

		// 学生报告（教师视角与管理端同一实现）
		teacher.GET("/students/:id/report", c.admin.StudentReport)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// 用户列表和详情：允许管理员和老师访问
		admin.GET("/users", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.ListUsers)
		admin.GET("/users/:id", middleware.RoleMiddleware(model.Admin, model.Teacher), c.user.GetUser)

		// 其余仅限管理员
		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.GET("/dashboard", c.admin.Dashboard)
			adminOnly.GET("/students/:id/report", c.admin.StudentReport)
			adminOnly.POST("/users/:id/disable", c.user.SetDisabled)
			adminOnly.PUT("/users/:id/role", c.user.SetRole)
			adminOnly.PUT("/users/:id/password", c.user.ResetPassword)
		}
	}
}
