package main

// Built-in starter programs, one per language, for quick demo runs.
var exampleCodes = map[string]map[string]string{
	"fibonacci": {
		"python": `def fibonacci(n: int) -> int:
    """Calculate the nth Fibonacci number."""
    if n <= 1:
        return n
    return fibonacci(n - 1) + fibonacci(n - 2)

def main():
    for i in range(10):
        print(f"fib({i}) = {fibonacci(i)}")

if __name__ == "__main__":
    main()
`,
		"typescript": `function fibonacci(n: number): number {
    // Calculate the nth Fibonacci number
    if (n <= 1) {
        return n;
    }
    return fibonacci(n - 1) + fibonacci(n - 2);
}

function main(): void {
    for (let i = 0; i < 10; i++) {
        console.log(` + "`fib(${i}) = ${fibonacci(i)}`" + `);
    }
}

main();
`,
	},
	"weather_api": {
		"python": `import requests
from typing import Dict, Any

def get_weather(city: str, api_key: str) -> Dict[str, Any]:
    """Fetch weather data for a city."""
    base_url = "http://api.openweathermap.org/data/2.5/weather"
    params = {
        "q": city,
        "appid": api_key,
        "units": "metric"
    }

    response = requests.get(base_url, params=params)
    response.raise_for_status()

    return response.json()

def format_weather(weather_data: Dict[str, Any]) -> str:
    """Format weather data for display."""
    city = weather_data["name"]
    temp = weather_data["main"]["temp"]
    description = weather_data["weather"][0]["description"]

    return f"Weather in {city}: {temp}°C, {description}"
`,
		"typescript": `interface WeatherData {
    name: string;
    main: {
        temp: number;
    };
    weather: Array<{
        description: string;
    }>;
}

async function getWeather(city: string, apiKey: string): Promise<WeatherData> {
    const baseUrl = "http://api.openweathermap.org/data/2.5/weather";
    const params = new URLSearchParams({
        q: city,
        appid: apiKey,
        units: "metric"
    });

    const response = await fetch(` + "`${baseUrl}?${params}`" + `);

    if (!response.ok) {
        throw new Error(` + "`HTTP error! status: ${response.status}`" + `);
    }

    return response.json();
}

function formatWeather(weatherData: WeatherData): string {
    const { name, main: { temp }, weather } = weatherData;
    const description = weather[0].description;

    return ` + "`Weather in ${name}: ${temp}°C, ${description}`" + `;
}
`,
	},
}

func exampleNames() []string {
	return []string{"fibonacci", "weather_api"}
}
