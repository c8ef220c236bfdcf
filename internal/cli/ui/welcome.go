package ui

import "fmt"

// PrintWelcome выводит приветствие и список команд
func PrintWelcome() {
	fmt.Println(ColorBold + IconKey + " autofill console" + ColorReset)
	fmt.Println(ColorGray + "Заполнение форм записями из локального хранилища" + ColorReset)
	fmt.Println()
	PrintHelp()
}

// PrintHelp выводит список доступных команд
func PrintHelp() {
	fmt.Println(ColorYellow + IconList + " Доступные команды:" + ColorReset)
	fmt.Println("  " + ColorGreen + "open" + ColorReset + " <url>    - Открыть URL в браузере")
	fmt.Println("  " + ColorGreen + "fill" + ColorReset + "          - Заполнить страницу последней использованной записью")
	fmt.Println("  " + ColorGreen + "next" + ColorReset + "          - Заполнить следующей записью для адреса")
	fmt.Println("  " + ColorGreen + "card" + ColorReset + "          - Заполнить платёжную форму")
	fmt.Println("  " + ColorGreen + "identity" + ColorReset + "      - Заполнить анкету")
	fmt.Println("  " + ColorGreen + "classify" + ColorReset + "      - Показать роли полей страницы")
	fmt.Println("  " + ColorGreen + "clear" + ColorReset + "         - Очистить экран")
	fmt.Println("  " + ColorGreen + "exit" + ColorReset + "          - Выход")
	fmt.Println()
}
